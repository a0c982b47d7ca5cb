package patient

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

const patientCols = `p.id, p.name, p.date_of_birth, p.contact_info, p.patient_type,
	p.assigned_doctor_id, d.name, p.assigned_department_id, dep.name,
	ip.room_number, ip.admission_date, ip.discharge_date,
	op.last_visit_date, p.created_at, p.updated_at`

const patientJoins = `FROM patients p
	LEFT JOIN doctors d ON d.id = p.assigned_doctor_id
	LEFT JOIN departments dep ON dep.id = p.assigned_department_id
	LEFT JOIN inpatients ip ON ip.id = p.id
	LEFT JOIN outpatients op ON op.id = p.id`

func (r *repoPG) checkRefs(ctx context.Context, p *Patient) error {
	q := r.conn(ctx)
	if p.AssignedDoctorID != nil {
		var ok bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, *p.AssignedDoctorID).Scan(&ok); err != nil {
			return apperror.Store("check assigned doctor", err)
		}
		if !ok {
			return apperror.ReferenceNotFound("Doctor", *p.AssignedDoctorID)
		}
	}
	if p.AssignedDepartmentID != nil {
		var ok bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, *p.AssignedDepartmentID).Scan(&ok); err != nil {
			return apperror.Store("check assigned department", err)
		}
		if !ok {
			return apperror.ReferenceNotFound("Department", *p.AssignedDepartmentID)
		}
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, p); err != nil {
			return err
		}

		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO patients (name, date_of_birth, contact_info, patient_type, assigned_doctor_id, assigned_department_id)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id, created_at, updated_at`,
			p.Name, p.DateOfBirth, p.ContactInfo, p.Type, p.AssignedDoctorID, p.AssignedDepartmentID,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return apperror.Store("insert patient", err)
		}

		switch p.Type {
		case KindInpatient:
			_, err = r.conn(ctx).Exec(ctx, `
				INSERT INTO inpatients (id, room_number, admission_date, discharge_date)
				VALUES ($1,$2,$3,$4)`,
				p.ID, p.RoomNumber, p.AdmissionDate, p.DischargeDate)
		case KindOutpatient:
			_, err = r.conn(ctx).Exec(ctx, `
				INSERT INTO outpatients (id, last_visit_date)
				VALUES ($1,$2)`,
				p.ID, p.LastVisitDate)
		}
		if err != nil {
			return apperror.Store("insert patient variant", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` `+patientJoins+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Patient", id)
		}
		return nil, apperror.Store("get patient", err)
	}
	return p, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var conds []string
	var args []interface{}
	if f.Type != nil {
		args = append(args, *f.Type)
		conds = append(conds, fmt.Sprintf("p.patient_type = $%d", len(args)))
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		conds = append(conds, fmt.Sprintf("p.assigned_doctor_id = $%d", len(args)))
	}
	if f.DepartmentID != nil {
		args = append(args, *f.DepartmentID)
		conds = append(conds, fmt.Sprintf("p.assigned_department_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients p`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Store("count patients", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` `+patientJoins+where+
			fmt.Sprintf(" ORDER BY p.id LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, apperror.Store("list patients", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperror.Store("scan patient", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Store("iterate patients", err)
	}
	return patients, total, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.checkRefs(ctx, p); err != nil {
			return err
		}

		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE patients SET
				name=$2, date_of_birth=$3, contact_info=$4,
				assigned_doctor_id=$5, assigned_department_id=$6, updated_at=NOW()
			WHERE id = $1`,
			p.ID, p.Name, p.DateOfBirth, p.ContactInfo, p.AssignedDoctorID, p.AssignedDepartmentID)
		if err != nil {
			return apperror.Store("update patient", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Patient", p.ID)
		}

		switch p.Type {
		case KindInpatient:
			_, err = r.conn(ctx).Exec(ctx, `
				UPDATE inpatients SET room_number=$2, admission_date=$3, discharge_date=$4
				WHERE id = $1`,
				p.ID, p.RoomNumber, p.AdmissionDate, p.DischargeDate)
		case KindOutpatient:
			_, err = r.conn(ctx).Exec(ctx, `
				UPDATE outpatients SET last_visit_date=$2 WHERE id = $1`,
				p.ID, p.LastVisitDate)
		}
		if err != nil {
			return apperror.Store("update patient variant", err)
		}
		return nil
	})
}

// Delete removes the patient along with every appointment and medical
// record referencing it, in one transaction.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if _, err := q.Exec(ctx, `DELETE FROM appointments WHERE patient_id = $1`, id); err != nil {
			return apperror.Store("cascade appointments", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM medical_records WHERE patient_id = $1`, id); err != nil {
			return apperror.Store("cascade medical records", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM inpatients WHERE id = $1`, id); err != nil {
			return apperror.Store("delete inpatient row", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM outpatients WHERE id = $1`, id); err != nil {
			return apperror.Store("delete outpatient row", err)
		}
		tag, err := q.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return apperror.Store("delete patient", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("Patient", id)
		}
		return nil
	})
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.Name, &p.DateOfBirth, &p.ContactInfo, &p.Type,
		&p.AssignedDoctorID, &p.AssignedDoctorName, &p.AssignedDepartmentID, &p.AssignedDepartmentName,
		&p.RoomNumber, &p.AdmissionDate, &p.DischargeDate,
		&p.LastVisitDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
