package medicalrecord

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

const recordCols = `r.id, r.patient_id, p.name, r.doctor_id, d.name,
	r.record_date, r.diagnosis, r.treatment, r.created_at, r.updated_at`

const recordJoins = `FROM medical_records r
	JOIN patients p ON p.id = r.patient_id
	JOIN doctors d ON d.id = r.doctor_id`

func (r *repoPG) checkRefs(ctx context.Context, rec *Record) error {
	q := r.conn(ctx)
	var ok bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, rec.PatientID).Scan(&ok); err != nil {
		return apperror.Store("check patient", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Patient", rec.PatientID)
	}
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, rec.DoctorID).Scan(&ok); err != nil {
		return apperror.Store("check doctor", err)
	}
	if !ok {
		return apperror.ReferenceNotFound("Doctor", rec.DoctorID)
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, rec); err != nil {
			return err
		}
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO medical_records (patient_id, doctor_id, record_date, diagnosis, treatment)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id, created_at, updated_at`,
			rec.PatientID, rec.DoctorID, rec.RecordDate, rec.Diagnosis, rec.Treatment,
		).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return apperror.Store("insert medical record", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Record, error) {
	rec, err := scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` `+recordJoins+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("MedicalRecord", id)
		}
		return nil, apperror.Store("get medical record", err)
	}
	return rec, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	var conds []string
	var args []interface{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		conds = append(conds, fmt.Sprintf("r.patient_id = $%d", len(args)))
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		conds = append(conds, fmt.Sprintf("r.doctor_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_records r`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Store("count medical records", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` `+recordJoins+where+
			fmt.Sprintf(" ORDER BY r.record_date DESC, r.id LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, apperror.Store("list medical records", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, apperror.Store("scan medical record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Store("iterate medical records", err)
	}
	return records, total, nil
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, rec); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE medical_records SET patient_id=$2, doctor_id=$3, record_date=$4,
				diagnosis=$5, treatment=$6, updated_at=NOW()
			WHERE id = $1`,
			rec.ID, rec.PatientID, rec.DoctorID, rec.RecordDate, rec.Diagnosis, rec.Treatment)
		if err != nil {
			return apperror.Store("update medical record", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("MedicalRecord", rec.ID)
		}
		return nil
	})
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return apperror.Store("delete medical record", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("MedicalRecord", id)
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.PatientID, &rec.PatientName, &rec.DoctorID, &rec.DoctorName,
		&rec.RecordDate, &rec.Diagnosis, &rec.Treatment, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
