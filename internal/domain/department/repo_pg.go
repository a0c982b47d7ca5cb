package department

import (
	"context"
	"errors"

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

const departmentCols = `dep.id, dep.name, dep.specialty, dep.head_doctor_id, hd.name,
	(SELECT COUNT(*) FROM doctors staff WHERE staff.department_id = dep.id),
	dep.created_at, dep.updated_at`

const departmentJoins = `FROM departments dep
	LEFT JOIN doctors hd ON hd.id = dep.head_doctor_id`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) checkHead(ctx context.Context, headID *int64) error {
	if headID == nil {
		return nil
	}
	var ok bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, *headID).Scan(&ok); err != nil {
		return apperror.Store("check head doctor", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Doctor", *headID)
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, d *Department) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkHead(ctx, d.HeadDoctorID); err != nil {
			return err
		}
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO departments (name, specialty, head_doctor_id)
			VALUES ($1,$2,$3)
			RETURNING id, created_at, updated_at`,
			d.Name, d.Specialty, d.HeadDoctorID,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("department %q already exists", d.Name)
			}
			return apperror.Store("insert department", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Department, error) {
	d, err := scanDepartment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+departmentCols+` `+departmentJoins+` WHERE dep.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Department", id)
		}
		return nil, apperror.Store("get department", err)
	}
	return d, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Department, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&total); err != nil {
		return nil, 0, apperror.Store("count departments", err)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+departmentCols+` `+departmentJoins+` ORDER BY dep.id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, apperror.Store("list departments", err)
	}
	defer rows.Close()

	var departments []*Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, apperror.Store("scan department", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Store("iterate departments", err)
	}
	return departments, total, nil
}

func (r *repoPG) Update(ctx context.Context, d *Department) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkHead(ctx, d.HeadDoctorID); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE departments SET name=$2, specialty=$3, head_doctor_id=$4, updated_at=NOW()
			WHERE id = $1`,
			d.ID, d.Name, d.Specialty, d.HeadDoctorID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("department %q already exists", d.Name)
			}
			return apperror.Store("update department", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Department", d.ID)
		}
		return nil
	})
}

// Delete removes the department and detaches its doctors and assigned
// patients instead of deleting them, in one transaction.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if _, err := q.Exec(ctx, `UPDATE doctors SET department_id = NULL WHERE department_id = $1`, id); err != nil {
			return apperror.Store("detach doctors", err)
		}
		if _, err := q.Exec(ctx, `UPDATE patients SET assigned_department_id = NULL WHERE assigned_department_id = $1`, id); err != nil {
			return apperror.Store("detach patients", err)
		}
		tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
		if err != nil {
			return apperror.Store("delete department", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Department", id)
		}
		return nil
	})
}

func (r *repoPG) StaffDoctors(ctx context.Context, id int64) ([]*StaffDoctor, error) {
	return r.staff(ctx,
		`SELECT id, name, specialization, contact_info FROM doctors
		 WHERE department_id = $1 ORDER BY id`, id)
}

func (r *repoPG) SpecialtyDoctors(ctx context.Context, id int64, specialty string) ([]*StaffDoctor, error) {
	return r.staff(ctx,
		`SELECT id, name, specialization, contact_info FROM doctors
		 WHERE department_id = $1 AND specialization = $2 ORDER BY id`, id, specialty)
}

func (r *repoPG) staff(ctx context.Context, sql string, args ...interface{}) ([]*StaffDoctor, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.Store("list staff", err)
	}
	defer rows.Close()

	var staff []*StaffDoctor
	for rows.Next() {
		var s StaffDoctor
		if err := rows.Scan(&s.ID, &s.Name, &s.Specialization, &s.ContactInfo); err != nil {
			return nil, apperror.Store("scan staff", err)
		}
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Store("iterate staff", err)
	}
	return staff, nil
}

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(
		&d.ID, &d.Name, &d.Specialty, &d.HeadDoctorID, &d.HeadDoctorName,
		&d.StaffCount, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
