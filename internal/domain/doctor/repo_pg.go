package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `d.id, d.name, d.specialization, d.contact_info,
	d.department_id, dep.name, d.created_at, d.updated_at`

const doctorJoins = `FROM doctors d
	LEFT JOIN departments dep ON dep.id = d.department_id`

func (r *repoPG) checkRefs(ctx context.Context, d *Doctor) error {
	if d.DepartmentID == nil {
		return nil
	}
	var ok bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, *d.DepartmentID).Scan(&ok); err != nil {
		return apperror.Store("check department", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Department", *d.DepartmentID)
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, d); err != nil {
			return err
		}
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO doctors (name, specialization, contact_info, department_id)
			VALUES ($1,$2,$3,$4)
			RETURNING id, created_at, updated_at`,
			d.Name, d.Specialization, d.ContactInfo, d.DepartmentID,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return apperror.Store("insert doctor", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` `+doctorJoins+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Doctor", id)
		}
		return nil, apperror.Store("get doctor", err)
	}
	return d, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error) {
	var conds []string
	var args []interface{}
	if f.DepartmentID != nil {
		args = append(args, *f.DepartmentID)
		conds = append(conds, fmt.Sprintf("d.department_id = $%d", len(args)))
	}
	if f.Specialization != nil {
		args = append(args, *f.Specialization)
		conds = append(conds, fmt.Sprintf("d.specialization = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors d`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Store("count doctors", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` `+doctorJoins+where+
			fmt.Sprintf(" ORDER BY d.id LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, apperror.Store("list doctors", err)
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, apperror.Store("scan doctor", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Store("iterate doctors", err)
	}
	return doctors, total, nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, d); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE doctors SET
				name=$2, specialization=$3, contact_info=$4, department_id=$5, updated_at=NOW()
			WHERE id = $1`,
			d.ID, d.Name, d.Specialization, d.ContactInfo, d.DepartmentID)
		if err != nil {
			return apperror.Store("update doctor", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Doctor", d.ID)
		}
		return nil
	})
}

// Delete removes the doctor together with their appointments and
// authored medical records, and clears any patient assignment or
// department headship pointing at them, in one transaction.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if _, err := q.Exec(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, id); err != nil {
			return apperror.Store("cascade appointments", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM medical_records WHERE doctor_id = $1`, id); err != nil {
			return apperror.Store("cascade medical records", err)
		}
		if _, err := q.Exec(ctx, `UPDATE patients SET assigned_doctor_id = NULL WHERE assigned_doctor_id = $1`, id); err != nil {
			return apperror.Store("clear patient assignments", err)
		}
		if _, err := q.Exec(ctx, `UPDATE departments SET head_doctor_id = NULL WHERE head_doctor_id = $1`, id); err != nil {
			return apperror.Store("clear department headship", err)
		}
		tag, err := q.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
		if err != nil {
			return apperror.Store("delete doctor", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Doctor", id)
		}
		return nil
	})
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID, &d.Name, &d.Specialization, &d.ContactInfo,
		&d.DepartmentID, &d.DepartmentName, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
