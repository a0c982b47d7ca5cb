package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/department"
	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/medicalrecord"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/dates"
	"github.com/hms/hms/pkg/optional"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive records menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				m := newMenu(os.Stdin, os.Stdout, s)
				return m.run(ctx)
			})
		},
	}
}

type menu struct {
	in  *bufio.Reader
	out io.Writer
	s   *services
}

func newMenu(in io.Reader, out io.Writer, s *services) *menu {
	return &menu{in: bufio.NewReader(in), out: out, s: s}
}

func (m *menu) run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "=== Hospital Records ===")
		fmt.Fprintln(m.out, "1) Patients")
		fmt.Fprintln(m.out, "2) Doctors")
		fmt.Fprintln(m.out, "3) Departments")
		fmt.Fprintln(m.out, "4) Appointments")
		fmt.Fprintln(m.out, "5) Medical records")
		fmt.Fprintln(m.out, "0) Exit")

		switch m.prompt("Choice") {
		case "1":
			m.patientMenu(ctx)
		case "2":
			m.doctorMenu(ctx)
		case "3":
			m.departmentMenu(ctx)
		case "4":
			m.appointmentMenu(ctx)
		case "5":
			m.recordMenu(ctx)
		case "0", "":
			return nil
		default:
			fmt.Fprintln(m.out, "Unknown choice.")
		}
	}
}

func (m *menu) readLine() string {
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "0"
	}
	return strings.TrimSpace(line)
}

func (m *menu) prompt(label string) string {
	fmt.Fprintf(m.out, "%s: ", label)
	return m.readLine()
}

// promptPtr returns nil when the answer is blank.
func (m *menu) promptPtr(label string) *string {
	v := m.prompt(label + " (blank to skip)")
	if v == "" {
		return nil
	}
	return &v
}

// promptOpt maps the answer to a three-state value: blank keeps the
// current value, "-" clears it.
func (m *menu) promptOpt(label string) optional.Value[string] {
	v := m.prompt(label + " (blank to keep, - to clear)")
	switch v {
	case "":
		return optional.Value[string]{}
	case clearSentinel:
		return optional.Null[string]()
	}
	return optional.Of(v)
}

func (m *menu) promptOptID(label string) (optional.Value[int64], error) {
	v := m.prompt(label + " (blank to keep, - to clear)")
	switch v {
	case "":
		return optional.Value[int64]{}, nil
	case clearSentinel:
		return optional.Null[int64](), nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return optional.Value[int64]{}, fmt.Errorf("invalid id %q", v)
	}
	return optional.Of(id), nil
}

func (m *menu) promptID(label string) (int64, error) {
	return parseArgID(m.prompt(label))
}

func (m *menu) promptIDPtr(label string) (*int64, error) {
	v := m.prompt(label + " (blank to skip)")
	if v == "" {
		return nil, nil
	}
	id, err := parseArgID(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (m *menu) fail(err error) {
	fmt.Fprintf(m.out, "Error: %v\n", err)
}

func (m *menu) printStaff(staff []*department.StaffDoctor) {
	for _, d := range staff {
		fmt.Fprintf(m.out, "#%d  %s", d.ID, d.Name)
		if d.Specialization != nil {
			fmt.Fprintf(m.out, "  (%s)", *d.Specialization)
		}
		fmt.Fprintln(m.out)
	}
}

func (m *menu) patientMenu(ctx context.Context) {
	fmt.Fprintln(m.out, "-- Patients: 1) add 2) list 3) show 4) update 5) delete 6) discharge --")
	switch m.prompt("Choice") {
	case "1":
		params := patient.CreateParams{
			Name:        m.prompt("Name"),
			DateOfBirth: m.prompt("Date of birth (YYYY-MM-DD)"),
			ContactInfo: m.promptPtr("Contact"),
			PatientType: patient.Kind(m.prompt("Type (inpatient/outpatient)")),
		}
		var err error
		if params.AssignedDoctorID, err = m.promptIDPtr("Doctor id"); err != nil {
			m.fail(err)
			return
		}
		if params.AssignedDepartmentID, err = m.promptIDPtr("Department id"); err != nil {
			m.fail(err)
			return
		}
		switch params.PatientType {
		case patient.KindInpatient:
			params.RoomNumber = m.promptPtr("Room number")
			params.AdmissionDate = m.promptPtr("Admission date")
		case patient.KindOutpatient:
			params.LastVisitDate = m.promptPtr("Last visit date")
		}
		p, err := m.s.patients.Create(ctx, params)
		if err != nil {
			m.fail(err)
			return
		}
		printPatient(p)
	case "2":
		patients, total, err := m.s.patients.List(ctx, patient.Filter{}, 50, 0)
		if err != nil {
			m.fail(err)
			return
		}
		for _, p := range patients {
			printPatient(p)
		}
		fmt.Fprintf(m.out, "%d of %d patient(s)\n", len(patients), total)
	case "3":
		id, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		p, err := m.s.patients.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printPatient(p)
	case "4":
		id, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		current, err := m.s.patients.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		params := patient.UpdateParams{
			Name:        m.promptOpt("Name"),
			DateOfBirth: m.promptOpt("Date of birth"),
			ContactInfo: m.promptOpt("Contact"),
		}
		if params.AssignedDoctorID, err = m.promptOptID("Doctor id"); err != nil {
			m.fail(err)
			return
		}
		if params.AssignedDepartmentID, err = m.promptOptID("Department id"); err != nil {
			m.fail(err)
			return
		}
		switch current.Type {
		case patient.KindInpatient:
			params.RoomNumber = m.promptOpt("Room number")
			params.AdmissionDate = m.promptOpt("Admission date")
			params.DischargeDate = m.promptOpt("Discharge date")
		case patient.KindOutpatient:
			params.LastVisitDate = m.promptOpt("Last visit date")
		}
		p, err := m.s.patients.Update(ctx, id, params)
		if err != nil {
			m.fail(err)
			return
		}
		printPatient(p)
	case "5":
		id, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.s.patients.Delete(ctx, id); err != nil {
			m.fail(err)
			return
		}
		fmt.Fprintf(m.out, "Patient %d deleted.\n", id)
	case "6":
		id, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		var when *time.Time
		if raw := m.promptPtr("Discharge date"); raw != nil {
			d, err := dates.Parse("discharge_date", *raw)
			if err != nil {
				m.fail(err)
				return
			}
			when = &d
		}
		p, err := m.s.patients.Discharge(ctx, id, when)
		if err != nil {
			m.fail(err)
			return
		}
		printPatient(p)
	}
}

func (m *menu) doctorMenu(ctx context.Context) {
	fmt.Fprintln(m.out, "-- Doctors: 1) add 2) list 3) show 4) update 5) delete --")
	switch m.prompt("Choice") {
	case "1":
		params := doctor.CreateParams{
			Name:           m.prompt("Name"),
			Specialization: m.promptPtr("Specialization"),
			ContactInfo:    m.promptPtr("Contact"),
		}
		var err error
		if params.DepartmentID, err = m.promptIDPtr("Department id"); err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.doctors.Create(ctx, params)
		if err != nil {
			m.fail(err)
			return
		}
		printDoctor(d)
	case "2":
		doctors, total, err := m.s.doctors.List(ctx, doctor.Filter{}, 50, 0)
		if err != nil {
			m.fail(err)
			return
		}
		for _, d := range doctors {
			printDoctor(d)
		}
		fmt.Fprintf(m.out, "%d of %d doctor(s)\n", len(doctors), total)
	case "3":
		id, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.doctors.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printDoctor(d)
	case "4":
		id, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		params := doctor.UpdateParams{
			Name:           m.promptOpt("Name"),
			Specialization: m.promptOpt("Specialization"),
			ContactInfo:    m.promptOpt("Contact"),
		}
		if params.DepartmentID, err = m.promptOptID("Department id"); err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.doctors.Update(ctx, id, params)
		if err != nil {
			m.fail(err)
			return
		}
		printDoctor(d)
	case "5":
		id, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.s.doctors.Delete(ctx, id); err != nil {
			m.fail(err)
			return
		}
		fmt.Fprintf(m.out, "Doctor %d deleted.\n", id)
	}
}

func (m *menu) departmentMenu(ctx context.Context) {
	fmt.Fprintln(m.out, "-- Departments: 1) add 2) list 3) show 4) update 5) delete 6) assign head 7) clear head 8) staff 9) specialty doctors --")
	switch m.prompt("Choice") {
	case "1":
		params := department.CreateParams{
			Name:      m.prompt("Name"),
			Specialty: m.promptPtr("Specialty"),
		}
		var err error
		if params.HeadDoctorID, err = m.promptIDPtr("Head doctor id"); err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.departments.Create(ctx, params)
		if err != nil {
			m.fail(err)
			return
		}
		printDepartment(d)
	case "2":
		departments, total, err := m.s.departments.List(ctx, 50, 0)
		if err != nil {
			m.fail(err)
			return
		}
		for _, d := range departments {
			printDepartment(d)
		}
		fmt.Fprintf(m.out, "%d of %d department(s)\n", len(departments), total)
	case "3":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.departments.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printDepartment(d)
	case "4":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		params := department.UpdateParams{
			Name:      m.promptOpt("Name"),
			Specialty: m.promptOpt("Specialty"),
		}
		if params.HeadDoctorID, err = m.promptOptID("Head doctor id"); err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.departments.Update(ctx, id, params)
		if err != nil {
			m.fail(err)
			return
		}
		printDepartment(d)
	case "5":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.s.departments.Delete(ctx, id); err != nil {
			m.fail(err)
			return
		}
		fmt.Fprintf(m.out, "Department %d deleted.\n", id)
	case "6":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		doctorID, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.departments.AssignHead(ctx, id, doctorID)
		if err != nil {
			m.fail(err)
			return
		}
		printDepartment(d)
	case "7":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		d, err := m.s.departments.UnassignHead(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printDepartment(d)
	case "8":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		staff, err := m.s.departments.Staff(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		m.printStaff(staff)
		fmt.Fprintf(m.out, "%d doctor(s)\n", len(staff))
	case "9":
		id, err := m.promptID("Department id")
		if err != nil {
			m.fail(err)
			return
		}
		docs, err := m.s.departments.SpecialtyDoctors(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		m.printStaff(docs)
		fmt.Fprintf(m.out, "%d doctor(s)\n", len(docs))
	}
}

func (m *menu) appointmentMenu(ctx context.Context) {
	fmt.Fprintln(m.out, "-- Appointments: 1) add 2) list 3) show 4) update 5) set status 6) delete --")
	switch m.prompt("Choice") {
	case "1":
		patientID, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		doctorID, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		a, err := m.s.appointments.Create(ctx, appointment.CreateParams{
			PatientID: patientID,
			DoctorID:  doctorID,
			DateTime:  m.prompt("Date and time (YYYY-MM-DD HH:MM)"),
			Notes:     m.promptPtr("Notes"),
		})
		if err != nil {
			m.fail(err)
			return
		}
		printAppointment(a)
	case "2":
		appts, total, err := m.s.appointments.List(ctx, appointment.Filter{}, 50, 0)
		if err != nil {
			m.fail(err)
			return
		}
		for _, a := range appts {
			printAppointment(a)
		}
		fmt.Fprintf(m.out, "%d of %d appointment(s)\n", len(appts), total)
	case "3":
		id, err := m.promptID("Appointment id")
		if err != nil {
			m.fail(err)
			return
		}
		a, err := m.s.appointments.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printAppointment(a)
	case "4":
		id, err := m.promptID("Appointment id")
		if err != nil {
			m.fail(err)
			return
		}
		params := appointment.UpdateParams{}
		if params.PatientID, err = m.promptOptID("Patient id"); err != nil {
			m.fail(err)
			return
		}
		if params.DoctorID, err = m.promptOptID("Doctor id"); err != nil {
			m.fail(err)
			return
		}
		params.DateTime = m.promptOpt("Date and time")
		if v := m.prompt("Status (blank to keep)"); v != "" {
			params.Status = optional.Of(appointment.Status(v))
		}
		params.Notes = m.promptOpt("Notes")
		a, err := m.s.appointments.Update(ctx, id, params)
		if err != nil {
			m.fail(err)
			return
		}
		printAppointment(a)
	case "5":
		id, err := m.promptID("Appointment id")
		if err != nil {
			m.fail(err)
			return
		}
		status := appointment.Status(m.prompt("Status (scheduled/completed/cancelled)"))
		a, err := m.s.appointments.UpdateStatus(ctx, id, status)
		if err != nil {
			m.fail(err)
			return
		}
		printAppointment(a)
	case "6":
		id, err := m.promptID("Appointment id")
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.s.appointments.Delete(ctx, id); err != nil {
			m.fail(err)
			return
		}
		fmt.Fprintf(m.out, "Appointment %d deleted.\n", id)
	}
}

func (m *menu) recordMenu(ctx context.Context) {
	fmt.Fprintln(m.out, "-- Medical records: 1) add 2) list 3) show 4) update 5) delete --")
	switch m.prompt("Choice") {
	case "1":
		patientID, err := m.promptID("Patient id")
		if err != nil {
			m.fail(err)
			return
		}
		doctorID, err := m.promptID("Doctor id")
		if err != nil {
			m.fail(err)
			return
		}
		r, err := m.s.records.Create(ctx, medicalrecord.CreateParams{
			PatientID:  patientID,
			DoctorID:   doctorID,
			RecordDate: m.promptPtr("Record date"),
			Diagnosis:  m.prompt("Diagnosis"),
			Treatment:  m.promptPtr("Treatment"),
		})
		if err != nil {
			m.fail(err)
			return
		}
		printRecord(r)
	case "2":
		records, total, err := m.s.records.List(ctx, medicalrecord.Filter{}, 50, 0)
		if err != nil {
			m.fail(err)
			return
		}
		for _, r := range records {
			printRecord(r)
		}
		fmt.Fprintf(m.out, "%d of %d record(s)\n", len(records), total)
	case "3":
		id, err := m.promptID("Record id")
		if err != nil {
			m.fail(err)
			return
		}
		r, err := m.s.records.Get(ctx, id)
		if err != nil {
			m.fail(err)
			return
		}
		printRecord(r)
	case "4":
		id, err := m.promptID("Record id")
		if err != nil {
			m.fail(err)
			return
		}
		params := medicalrecord.UpdateParams{}
		if params.PatientID, err = m.promptOptID("Patient id"); err != nil {
			m.fail(err)
			return
		}
		if params.DoctorID, err = m.promptOptID("Doctor id"); err != nil {
			m.fail(err)
			return
		}
		params.RecordDate = m.promptOpt("Record date")
		params.Diagnosis = m.promptOpt("Diagnosis")
		params.Treatment = m.promptOpt("Treatment")
		r, err := m.s.records.Update(ctx, id, params)
		if err != nil {
			m.fail(err)
			return
		}
		printRecord(r)
	case "5":
		id, err := m.promptID("Record id")
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.s.records.Delete(ctx, id); err != nil {
			m.fail(err)
			return
		}
		fmt.Fprintf(m.out, "Record %d deleted.\n", id)
	}
}
