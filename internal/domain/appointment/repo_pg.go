package appointment

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

const appointmentCols = `a.id, a.patient_id, p.name, a.doctor_id, d.name,
	a.appointment_datetime, a.status, a.notes, a.created_at, a.updated_at`

const appointmentJoins = `FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func (r *repoPG) checkRefs(ctx context.Context, a *Appointment) error {
	q := r.conn(ctx)
	var ok bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, a.PatientID).Scan(&ok); err != nil {
		return apperror.Store("check patient", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Patient", a.PatientID)
	}
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, a.DoctorID).Scan(&ok); err != nil {
		return apperror.Store("check doctor", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Doctor", a.DoctorID)
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, a); err != nil {
			return err
		}
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO appointments (patient_id, doctor_id, appointment_datetime, status, notes)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id, created_at, updated_at`,
			a.PatientID, a.DoctorID, a.DateTime, a.Status, a.Notes,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return apperror.Store("insert appointment", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` `+appointmentJoins+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Appointment", id)
		}
		return nil, apperror.Store("get appointment", err)
	}
	return a, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var conds []string
	var args []interface{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		conds = append(conds, fmt.Sprintf("a.patient_id = $%d", len(args)))
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		conds = append(conds, fmt.Sprintf("a.doctor_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Store("count appointments", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` `+appointmentJoins+where+
			fmt.Sprintf(" ORDER BY a.appointment_datetime, a.id LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, apperror.Store("list appointments", err)
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, apperror.Store("scan appointment", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Store("iterate appointments", err)
	}
	return appts, total, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, a); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE appointments SET patient_id=$2, doctor_id=$3, appointment_datetime=$4,
				status=$5, notes=$6, updated_at=NOW()
			WHERE id = $1`,
			a.ID, a.PatientID, a.DoctorID, a.DateTime, a.Status, a.Notes)
		if err != nil {
			return apperror.Store("update appointment", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Appointment", a.ID)
		}
		return nil
	})
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return apperror.Store("delete appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Appointment", id)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
		&a.DateTime, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
