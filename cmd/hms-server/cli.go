package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/department"
	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/medicalrecord"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/dates"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/pkg/optional"
)

// clearSentinel is the flag value that clears an optional field on
// update, e.g. --contact=-
const clearSentinel = "-"

type services struct {
	patients     *patient.Service
	doctors      *doctor.Service
	departments  *department.Service
	appointments *appointment.Service
	records      *medicalrecord.Service
}

func withServices(fn func(ctx context.Context, s *services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	s := &services{
		patients:     patient.NewService(patient.NewRepo(pool)),
		doctors:      doctor.NewService(doctor.NewRepo(pool)),
		departments:  department.NewService(department.NewRepo(pool)),
		appointments: appointment.NewService(appointment.NewRepo(pool)),
		records:      medicalrecord.NewService(medicalrecord.NewRepo(pool)),
	}
	return fn(ctx, s)
}

func parseArgID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// strPtrFlag returns the flag value, or nil if the flag was not given.
func strPtrFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func idPtrFlag(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt64(name)
	return &v
}

// optStrFlag maps an update flag to its three-state value: absent when
// the flag was not given, null when the value is "-", set otherwise.
func optStrFlag(cmd *cobra.Command, name string) optional.Value[string] {
	if !cmd.Flags().Changed(name) {
		return optional.Value[string]{}
	}
	v, _ := cmd.Flags().GetString(name)
	if v == clearSentinel {
		return optional.Null[string]()
	}
	return optional.Of(v)
}

// optIDFlag is optStrFlag for reference flags, which are given as
// string flags so "-" can clear them.
func optIDFlag(cmd *cobra.Command, name string) (optional.Value[int64], error) {
	if !cmd.Flags().Changed(name) {
		return optional.Value[int64]{}, nil
	}
	v, _ := cmd.Flags().GetString(name)
	if v == clearSentinel {
		return optional.Null[int64](), nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return optional.Value[int64]{}, fmt.Errorf("invalid --%s value %q", name, v)
	}
	return optional.Of(id), nil
}

func printPatient(p *patient.Patient) {
	fmt.Printf("#%d  %s  (%s)\n", p.ID, p.Name, p.Type)
	fmt.Printf("    born %s", dates.Format(p.DateOfBirth))
	if p.ContactInfo != nil {
		fmt.Printf("  contact %s", *p.ContactInfo)
	}
	fmt.Println()
	if p.AssignedDoctorName != nil {
		fmt.Printf("    doctor: %s (#%d)\n", *p.AssignedDoctorName, *p.AssignedDoctorID)
	}
	if p.AssignedDepartmentName != nil {
		fmt.Printf("    department: %s (#%d)\n", *p.AssignedDepartmentName, *p.AssignedDepartmentID)
	}
	switch p.Type {
	case patient.KindInpatient:
		if p.RoomNumber != nil {
			fmt.Printf("    room %s", *p.RoomNumber)
		}
		if p.AdmissionDate != nil {
			fmt.Printf("  admitted %s", dates.Format(*p.AdmissionDate))
		}
		if p.DischargeDate != nil {
			fmt.Printf("  discharged %s", dates.Format(*p.DischargeDate))
		}
		fmt.Println()
	case patient.KindOutpatient:
		if p.LastVisitDate != nil {
			fmt.Printf("    last visit %s\n", dates.Format(*p.LastVisitDate))
		}
	}
}

func printDoctor(d *doctor.Doctor) {
	fmt.Printf("#%d  %s", d.ID, d.Name)
	if d.Specialization != nil {
		fmt.Printf("  (%s)", *d.Specialization)
	}
	if d.DepartmentName != nil {
		fmt.Printf("  dept: %s", *d.DepartmentName)
	}
	if d.ContactInfo != nil {
		fmt.Printf("  contact: %s", *d.ContactInfo)
	}
	fmt.Println()
}

func printStaffDoctor(d *department.StaffDoctor) {
	fmt.Printf("#%d  %s", d.ID, d.Name)
	if d.Specialization != nil {
		fmt.Printf("  (%s)", *d.Specialization)
	}
	fmt.Println()
}

func printDepartment(d *department.Department) {
	fmt.Printf("#%d  %s", d.ID, d.Name)
	if d.Specialty != nil {
		fmt.Printf("  specialty: %s", *d.Specialty)
	}
	if d.HeadDoctorName != nil {
		fmt.Printf("  head: %s (#%d)", *d.HeadDoctorName, *d.HeadDoctorID)
	}
	fmt.Printf("  staff: %d\n", d.StaffCount)
}

func printAppointment(a *appointment.Appointment) {
	fmt.Printf("#%d  %s  %s with %s  [%s]",
		a.ID, a.DateTime.Format("2006-01-02 15:04"), a.PatientName, a.DoctorName, a.Status)
	if a.Notes != nil {
		fmt.Printf("  %s", *a.Notes)
	}
	fmt.Println()
}

func printRecord(r *medicalrecord.Record) {
	fmt.Printf("#%d  %s  %s by %s: %s",
		r.ID, dates.Format(r.RecordDate), r.PatientName, r.DoctorName, r.Diagnosis)
	if r.Treatment != nil {
		fmt.Printf("  treatment: %s", *r.Treatment)
	}
	fmt.Println()
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patients",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				name, _ := cmd.Flags().GetString("name")
				dob, _ := cmd.Flags().GetString("dob")
				ptype, _ := cmd.Flags().GetString("type")
				p, err := s.patients.Create(ctx, patient.CreateParams{
					Name:                 name,
					DateOfBirth:          dob,
					ContactInfo:          strPtrFlag(cmd, "contact"),
					PatientType:          patient.Kind(ptype),
					AssignedDoctorID:     idPtrFlag(cmd, "doctor"),
					AssignedDepartmentID: idPtrFlag(cmd, "department"),
					RoomNumber:           strPtrFlag(cmd, "room"),
					AdmissionDate:        strPtrFlag(cmd, "admitted"),
					LastVisitDate:        strPtrFlag(cmd, "last-visit"),
				})
				if err != nil {
					return err
				}
				printPatient(p)
				return nil
			})
		},
	}
	addCmd.Flags().String("name", "", "Patient name")
	addCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	addCmd.Flags().String("contact", "", "Contact info")
	addCmd.Flags().String("type", "", "Patient type: inpatient or outpatient")
	addCmd.Flags().Int64("doctor", 0, "Assigned doctor id")
	addCmd.Flags().Int64("department", 0, "Assigned department id")
	addCmd.Flags().String("room", "", "Room number (inpatients)")
	addCmd.Flags().String("admitted", "", "Admission date (inpatients, defaults to today)")
	addCmd.Flags().String("last-visit", "", "Last visit date (outpatients, defaults to today)")
	cmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				var f patient.Filter
				if v, _ := cmd.Flags().GetString("type"); v != "" {
					kind := patient.Kind(v)
					f.Type = &kind
				}
				f.DoctorID = idPtrFlag(cmd, "doctor")
				f.DepartmentID = idPtrFlag(cmd, "department")
				limit, _ := cmd.Flags().GetInt("limit")
				offset, _ := cmd.Flags().GetInt("offset")

				patients, total, err := s.patients.List(ctx, f, limit, offset)
				if err != nil {
					return err
				}
				for _, p := range patients {
					printPatient(p)
				}
				fmt.Printf("%d of %d patient(s)\n", len(patients), total)
				return nil
			})
		},
	}
	listCmd.Flags().String("type", "", "Filter by patient type")
	listCmd.Flags().Int64("doctor", 0, "Filter by assigned doctor id")
	listCmd.Flags().Int64("department", 0, "Filter by assigned department id")
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				p, err := s.patients.Get(ctx, id)
				if err != nil {
					return err
				}
				printPatient(p)
				return nil
			})
		},
	})

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a patient; pass - to clear an optional field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			doctorID, err := optIDFlag(cmd, "doctor")
			if err != nil {
				return err
			}
			deptID, err := optIDFlag(cmd, "department")
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				p, err := s.patients.Update(ctx, id, patient.UpdateParams{
					Name:                 optStrFlag(cmd, "name"),
					DateOfBirth:          optStrFlag(cmd, "dob"),
					ContactInfo:          optStrFlag(cmd, "contact"),
					AssignedDoctorID:     doctorID,
					AssignedDepartmentID: deptID,
					RoomNumber:           optStrFlag(cmd, "room"),
					AdmissionDate:        optStrFlag(cmd, "admitted"),
					DischargeDate:        optStrFlag(cmd, "discharged"),
					LastVisitDate:        optStrFlag(cmd, "last-visit"),
				})
				if err != nil {
					return err
				}
				printPatient(p)
				return nil
			})
		},
	}
	updateCmd.Flags().String("name", "", "Patient name")
	updateCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	updateCmd.Flags().String("contact", "", "Contact info")
	updateCmd.Flags().String("doctor", "", "Assigned doctor id")
	updateCmd.Flags().String("department", "", "Assigned department id")
	updateCmd.Flags().String("room", "", "Room number (inpatients)")
	updateCmd.Flags().String("admitted", "", "Admission date (inpatients)")
	updateCmd.Flags().String("discharged", "", "Discharge date (inpatients)")
	updateCmd.Flags().String("last-visit", "", "Last visit date (outpatients)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient and their appointments and records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				if err := s.patients.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Patient %d deleted.\n", id)
				return nil
			})
		},
	})

	dischargeCmd := &cobra.Command{
		Use:   "discharge <id>",
		Short: "Discharge an inpatient; the date defaults to today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			var when *time.Time
			if cmd.Flags().Changed("date") {
				raw, _ := cmd.Flags().GetString("date")
				d, err := dates.Parse("date", raw)
				if err != nil {
					return err
				}
				when = &d
			}
			return withServices(func(ctx context.Context, s *services) error {
				p, err := s.patients.Discharge(ctx, id, when)
				if err != nil {
					return err
				}
				printPatient(p)
				return nil
			})
		},
	}
	dischargeCmd.Flags().String("date", "", "Discharge date (YYYY-MM-DD)")
	cmd.AddCommand(dischargeCmd)

	return cmd
}

func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctors",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				name, _ := cmd.Flags().GetString("name")
				d, err := s.doctors.Create(ctx, doctor.CreateParams{
					Name:           name,
					Specialization: strPtrFlag(cmd, "specialization"),
					ContactInfo:    strPtrFlag(cmd, "contact"),
					DepartmentID:   idPtrFlag(cmd, "department"),
				})
				if err != nil {
					return err
				}
				printDoctor(d)
				return nil
			})
		},
	}
	addCmd.Flags().String("name", "", "Doctor name")
	addCmd.Flags().String("specialization", "", "Specialization")
	addCmd.Flags().String("contact", "", "Contact info")
	addCmd.Flags().Int64("department", 0, "Department id")
	cmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				var f doctor.Filter
				f.DepartmentID = idPtrFlag(cmd, "department")
				f.Specialization = strPtrFlag(cmd, "specialization")
				limit, _ := cmd.Flags().GetInt("limit")
				offset, _ := cmd.Flags().GetInt("offset")

				doctors, total, err := s.doctors.List(ctx, f, limit, offset)
				if err != nil {
					return err
				}
				for _, d := range doctors {
					printDoctor(d)
				}
				fmt.Printf("%d of %d doctor(s)\n", len(doctors), total)
				return nil
			})
		},
	}
	listCmd.Flags().Int64("department", 0, "Filter by department id")
	listCmd.Flags().String("specialization", "", "Filter by specialization")
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.doctors.Get(ctx, id)
				if err != nil {
					return err
				}
				printDoctor(d)
				return nil
			})
		},
	})

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a doctor; pass - to clear an optional field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			deptID, err := optIDFlag(cmd, "department")
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.doctors.Update(ctx, id, doctor.UpdateParams{
					Name:           optStrFlag(cmd, "name"),
					Specialization: optStrFlag(cmd, "specialization"),
					ContactInfo:    optStrFlag(cmd, "contact"),
					DepartmentID:   deptID,
				})
				if err != nil {
					return err
				}
				printDoctor(d)
				return nil
			})
		},
	}
	updateCmd.Flags().String("name", "", "Doctor name")
	updateCmd.Flags().String("specialization", "", "Specialization")
	updateCmd.Flags().String("contact", "", "Contact info")
	updateCmd.Flags().String("department", "", "Department id")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a doctor; their appointments and records go too",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				if err := s.doctors.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Doctor %d deleted.\n", id)
				return nil
			})
		},
	})

	return cmd
}

func departmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "department",
		Short: "Manage departments",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				name, _ := cmd.Flags().GetString("name")
				d, err := s.departments.Create(ctx, department.CreateParams{
					Name:         name,
					Specialty:    strPtrFlag(cmd, "specialty"),
					HeadDoctorID: idPtrFlag(cmd, "head"),
				})
				if err != nil {
					return err
				}
				printDepartment(d)
				return nil
			})
		},
	}
	addCmd.Flags().String("name", "", "Department name")
	addCmd.Flags().String("specialty", "", "Department specialty")
	addCmd.Flags().Int64("head", 0, "Head doctor id")
	cmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				limit, _ := cmd.Flags().GetInt("limit")
				offset, _ := cmd.Flags().GetInt("offset")
				departments, total, err := s.departments.List(ctx, limit, offset)
				if err != nil {
					return err
				}
				for _, d := range departments {
					printDepartment(d)
				}
				fmt.Printf("%d of %d department(s)\n", len(departments), total)
				return nil
			})
		},
	}
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.departments.Get(ctx, id)
				if err != nil {
					return err
				}
				printDepartment(d)
				return nil
			})
		},
	})

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a department; pass - to clear an optional field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			headID, err := optIDFlag(cmd, "head")
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.departments.Update(ctx, id, department.UpdateParams{
					Name:         optStrFlag(cmd, "name"),
					Specialty:    optStrFlag(cmd, "specialty"),
					HeadDoctorID: headID,
				})
				if err != nil {
					return err
				}
				printDepartment(d)
				return nil
			})
		},
	}
	updateCmd.Flags().String("name", "", "Department name")
	updateCmd.Flags().String("specialty", "", "Department specialty")
	updateCmd.Flags().String("head", "", "Head doctor id")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a department; its doctors and patients are detached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				if err := s.departments.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Department %d deleted.\n", id)
				return nil
			})
		},
	})

	assignHeadCmd := &cobra.Command{
		Use:   "assign-head <id>",
		Short: "Assign the department's head doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			doctorID, _ := cmd.Flags().GetInt64("doctor")
			if doctorID <= 0 {
				return fmt.Errorf("--doctor is required")
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.departments.AssignHead(ctx, id, doctorID)
				if err != nil {
					return err
				}
				printDepartment(d)
				return nil
			})
		},
	}
	assignHeadCmd.Flags().Int64("doctor", 0, "Doctor id")
	cmd.AddCommand(assignHeadCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "unassign-head <id>",
		Short: "Clear the department's head doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				d, err := s.departments.UnassignHead(ctx, id)
				if err != nil {
					return err
				}
				printDepartment(d)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "staff <id>",
		Short: "List the department's doctors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				staff, err := s.departments.Staff(ctx, id)
				if err != nil {
					return err
				}
				for _, d := range staff {
					printStaffDoctor(d)
				}
				fmt.Printf("%d doctor(s)\n", len(staff))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "specialty-doctors <id>",
		Short: "List doctors matching the department specialty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				docs, err := s.departments.SpecialtyDoctors(ctx, id)
				if err != nil {
					return err
				}
				for _, d := range docs {
					printStaffDoctor(d)
				}
				fmt.Printf("%d doctor(s)\n", len(docs))
				return nil
			})
		},
	})

	return cmd
}

func appointmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointment",
		Short: "Manage appointments",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				pid, _ := cmd.Flags().GetInt64("patient")
				did, _ := cmd.Flags().GetInt64("doctor")
				when, _ := cmd.Flags().GetString("at")
				a, err := s.appointments.Create(ctx, appointment.CreateParams{
					PatientID: pid,
					DoctorID:  did,
					DateTime:  when,
					Notes:     strPtrFlag(cmd, "notes"),
				})
				if err != nil {
					return err
				}
				printAppointment(a)
				return nil
			})
		},
	}
	addCmd.Flags().Int64("patient", 0, "Patient id")
	addCmd.Flags().Int64("doctor", 0, "Doctor id")
	addCmd.Flags().String("at", "", "Date and time (YYYY-MM-DD HH:MM)")
	addCmd.Flags().String("notes", "", "Notes")
	cmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				var f appointment.Filter
				f.PatientID = idPtrFlag(cmd, "patient")
				f.DoctorID = idPtrFlag(cmd, "doctor")
				if v, _ := cmd.Flags().GetString("status"); v != "" {
					status := appointment.Status(v)
					f.Status = &status
				}
				limit, _ := cmd.Flags().GetInt("limit")
				offset, _ := cmd.Flags().GetInt("offset")

				appts, total, err := s.appointments.List(ctx, f, limit, offset)
				if err != nil {
					return err
				}
				for _, a := range appts {
					printAppointment(a)
				}
				fmt.Printf("%d of %d appointment(s)\n", len(appts), total)
				return nil
			})
		},
	}
	listCmd.Flags().Int64("patient", 0, "Filter by patient id")
	listCmd.Flags().Int64("doctor", 0, "Filter by doctor id")
	listCmd.Flags().String("status", "", "Filter by status")
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				a, err := s.appointments.Get(ctx, id)
				if err != nil {
					return err
				}
				printAppointment(a)
				return nil
			})
		},
	})

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an appointment; pass - to clear the notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			patientID, err := optIDFlag(cmd, "patient")
			if err != nil {
				return err
			}
			doctorID, err := optIDFlag(cmd, "doctor")
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				params := appointment.UpdateParams{
					PatientID: patientID,
					DoctorID:  doctorID,
					DateTime:  optStrFlag(cmd, "at"),
					Notes:     optStrFlag(cmd, "notes"),
				}
				if cmd.Flags().Changed("status") {
					v, _ := cmd.Flags().GetString("status")
					params.Status = optional.Of(appointment.Status(v))
				}
				a, err := s.appointments.Update(ctx, id, params)
				if err != nil {
					return err
				}
				printAppointment(a)
				return nil
			})
		},
	}
	updateCmd.Flags().String("patient", "", "Patient id")
	updateCmd.Flags().String("doctor", "", "Doctor id")
	updateCmd.Flags().String("at", "", "Date and time (YYYY-MM-DD HH:MM)")
	updateCmd.Flags().String("status", "", "Status: scheduled, completed or cancelled")
	updateCmd.Flags().String("notes", "", "Notes")
	cmd.AddCommand(updateCmd)

	statusCmd := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Move an appointment to a new status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			v, _ := cmd.Flags().GetString("status")
			return withServices(func(ctx context.Context, s *services) error {
				a, err := s.appointments.UpdateStatus(ctx, id, appointment.Status(v))
				if err != nil {
					return err
				}
				printAppointment(a)
				return nil
			})
		},
	}
	statusCmd.Flags().String("status", "", "Status: scheduled, completed or cancelled")
	cmd.AddCommand(statusCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				if err := s.appointments.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Appointment %d deleted.\n", id)
				return nil
			})
		},
	})

	return cmd
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage medical records",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Write a medical record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				pid, _ := cmd.Flags().GetInt64("patient")
				did, _ := cmd.Flags().GetInt64("doctor")
				diagnosis, _ := cmd.Flags().GetString("diagnosis")
				r, err := s.records.Create(ctx, medicalrecord.CreateParams{
					PatientID:  pid,
					DoctorID:   did,
					RecordDate: strPtrFlag(cmd, "date"),
					Diagnosis:  diagnosis,
					Treatment:  strPtrFlag(cmd, "treatment"),
				})
				if err != nil {
					return err
				}
				printRecord(r)
				return nil
			})
		},
	}
	addCmd.Flags().Int64("patient", 0, "Patient id")
	addCmd.Flags().Int64("doctor", 0, "Doctor id")
	addCmd.Flags().String("date", "", "Record date (defaults to today)")
	addCmd.Flags().String("diagnosis", "", "Diagnosis")
	addCmd.Flags().String("treatment", "", "Treatment")
	cmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List medical records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, s *services) error {
				var f medicalrecord.Filter
				f.PatientID = idPtrFlag(cmd, "patient")
				f.DoctorID = idPtrFlag(cmd, "doctor")
				limit, _ := cmd.Flags().GetInt("limit")
				offset, _ := cmd.Flags().GetInt("offset")

				records, total, err := s.records.List(ctx, f, limit, offset)
				if err != nil {
					return err
				}
				for _, r := range records {
					printRecord(r)
				}
				fmt.Printf("%d of %d record(s)\n", len(records), total)
				return nil
			})
		},
	}
	listCmd.Flags().Int64("patient", 0, "Filter by patient id")
	listCmd.Flags().Int64("doctor", 0, "Filter by doctor id")
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a medical record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				r, err := s.records.Get(ctx, id)
				if err != nil {
					return err
				}
				printRecord(r)
				return nil
			})
		},
	})

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a medical record; pass - to clear the treatment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			patientID, err := optIDFlag(cmd, "patient")
			if err != nil {
				return err
			}
			doctorID, err := optIDFlag(cmd, "doctor")
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				r, err := s.records.Update(ctx, id, medicalrecord.UpdateParams{
					PatientID:  patientID,
					DoctorID:   doctorID,
					RecordDate: optStrFlag(cmd, "date"),
					Diagnosis:  optStrFlag(cmd, "diagnosis"),
					Treatment:  optStrFlag(cmd, "treatment"),
				})
				if err != nil {
					return err
				}
				printRecord(r)
				return nil
			})
		},
	}
	updateCmd.Flags().String("patient", "", "Patient id")
	updateCmd.Flags().String("doctor", "", "Doctor id")
	updateCmd.Flags().String("date", "", "Record date")
	updateCmd.Flags().String("diagnosis", "", "Diagnosis")
	updateCmd.Flags().String("treatment", "", "Treatment")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a medical record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArgID(args[0])
			if err != nil {
				return err
			}
			return withServices(func(ctx context.Context, s *services) error {
				if err := s.records.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Record %d deleted.\n", id)
				return nil
			})
		},
	})

	return cmd
}
