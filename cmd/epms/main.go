package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/epms-core/internal/adapters/api"
	"github.com/ogurasousui/epms-core/internal/adapters/repository/blob"
	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
	"github.com/ogurasousui/epms-core/internal/core/report"
	"github.com/ogurasousui/epms-core/internal/platform/config"
	"github.com/ogurasousui/epms-core/internal/platform/db/sqlite"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
	"github.com/ogurasousui/epms-core/internal/platform/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は任意。存在しない場合は環境変数をそのまま使う。
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer closeStore()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(ctx, store, os.Args[1], os.Args[2:]); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			logger.Error().Str("kind", string(apiErr.Kind)).Msg(apiErr.Message)
		} else {
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*api.Store, func(), error) {
	var (
		blobStore  kv.Store
		closeStore = func() {}
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		blobStore = kv.NewMemory()
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		blobStore = s
		closeStore = func() {
			if err := s.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close storage")
			}
		}
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	strict := cfg.Store.StrictTenant

	accountRepo := blob.NewAccountRepository(blobStore)
	sessionRepo := blob.NewSessionRepository(blobStore)
	departmentRepo := blob.NewDepartmentRepository(blobStore, strict)
	employeeRepo := blob.NewEmployeeRepository(blobStore, strict)
	payrollRepo := blob.NewPayrollRepository(blobStore, strict)
	sequenceRepo := blob.NewSequenceRepository(blobStore)
	directory := blob.NewDirectory(employeeRepo, departmentRepo)

	signer := token.NewSigner(cfg.Session.Secret, cfg.Session.TTL)

	facade := api.NewStore(api.StoreOptions{
		Accounts:    account.NewService(accountRepo, signer, nil),
		Departments: department.NewService(departmentRepo, nil),
		Employees:   employee.NewService(employeeRepo, sequenceRepo, nil),
		Payroll:     payroll.NewService(payrollRepo, directory, nil),
		Sessions:    sessionRepo,
		Latency:     cfg.Store.Latency,
		Logger:      logger,
	})
	return facade, closeStore, nil
}

func run(ctx context.Context, store *api.Store, command string, args []string) error {
	switch command {
	case "register":
		return runRegister(ctx, store, args)
	case "login":
		return runLogin(ctx, store, args)
	case "logout":
		_, err := store.DeleteSession(ctx)
		return err
	case "department-create":
		return runDepartmentCreate(ctx, store, args)
	case "department-list":
		listed, err := store.ListDepartments(ctx)
		if err != nil {
			return err
		}
		return printJSON(listed)
	case "department-delete":
		return runDepartmentDelete(ctx, store, args)
	case "employee-create":
		return runEmployeeCreate(ctx, store, args)
	case "employee-list":
		listed, err := store.ListEmployees(ctx)
		if err != nil {
			return err
		}
		return printJSON(listed)
	case "employee-delete":
		return runEmployeeDelete(ctx, store, args)
	case "salary-create":
		return runSalaryCreate(ctx, store, args)
	case "salary-list":
		listed, err := store.ListSalaries(ctx)
		if err != nil {
			return err
		}
		return printJSON(listed)
	case "salary-delete":
		return runSalaryDelete(ctx, store, args)
	case "report":
		return runReport(ctx, store, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRegister(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username (required)")
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password (required)")
	fullName := fs.String("full-name", "", "full name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ack, err := store.CreateAccount(ctx, api.CreateAccountInput{
		Username: *username,
		Email:    *email,
		Password: *password,
		FullName: *fullName,
	})
	if err != nil {
		return err
	}
	return printJSON(ack)
}

func runLogin(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username (required)")
	password := fs.String("password", "", "password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := store.CreateSession(ctx, api.CreateSessionInput{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		return err
	}
	return printJSON(session)
}

func runDepartmentCreate(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("department-create", flag.ExitOnError)
	code := fs.String("code", "", "department code (required)")
	name := fs.String("name", "", "department name (required)")
	gross := fs.Float64("gross", 0, "gross salary for the department")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{
		Code:        *code,
		Name:        *name,
		GrossSalary: *gross,
	})
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runDepartmentDelete(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("department-delete", flag.ExitOnError)
	code := fs.String("code", "", "department code (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ack, err := store.DeleteDepartment(ctx, *code)
	if err != nil {
		return err
	}
	return printJSON(ack)
}

func runEmployeeCreate(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("employee-create", flag.ExitOnError)
	firstName := fs.String("first-name", "", "first name (required)")
	lastName := fs.String("last-name", "", "last name (required)")
	gender := fs.String("gender", "", "gender")
	address := fs.String("address", "", "address")
	position := fs.String("position", "", "position (required)")
	departmentCode := fs.String("department", "", "department code (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var addressPtr *string
	if *address != "" {
		addressPtr = address
	}

	created, err := store.CreateEmployee(ctx, api.CreateEmployeeInput{
		FirstName:      *firstName,
		LastName:       *lastName,
		Gender:         *gender,
		Address:        addressPtr,
		Position:       *position,
		DepartmentCode: *departmentCode,
	})
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runEmployeeDelete(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("employee-delete", flag.ExitOnError)
	number := fs.Int64("number", 0, "employee number (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ack, err := store.DeleteEmployee(ctx, *number)
	if err != nil {
		return err
	}
	return printJSON(ack)
}

func runSalaryCreate(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("salary-create", flag.ExitOnError)
	number := fs.Int64("employee", 0, "employee number (required)")
	month := fs.String("month", "", "pay month as YYYY-MM (required)")
	deductions := fs.Float64("deductions", 0, "deductions (defaults to 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var deductionsPtr *float64
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "deductions" {
			deductionsPtr = deductions
		}
	})

	created, err := store.CreateSalary(ctx, api.CreateSalaryInput{
		EmployeeNumber: *number,
		Month:          *month,
		Deductions:     deductionsPtr,
	})
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runSalaryDelete(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("salary-delete", flag.ExitOnError)
	salaryID := fs.String("id", "", "salary record id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ack, err := store.DeleteSalary(ctx, *salaryID)
	if err != nil {
		return err
	}
	return printJSON(ack)
}

func runReport(ctx context.Context, store *api.Store, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	number := fs.Int64("employee", 0, "filter by employee number")
	month := fs.String("month", "", "filter by pay month (YYYY-MM)")
	departmentCode := fs.String("department", "", "filter by department code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := report.Filter{Month: *month, DepartmentCode: *departmentCode}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "employee" {
			filter.EmployeeNumber = number
		}
	})

	out, err := store.Report(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: epms <command> [flags]

commands:
  register            register a new account
  login               authenticate and store the active session
  logout              clear the active session
  department-create   create a department
  department-list     list visible departments
  department-delete   delete a department by code
  employee-create     create an employee
  employee-list       list visible employees
  employee-delete     delete an employee by number
  salary-create       create a salary record
  salary-list         list visible salary records with employee details
  salary-delete       delete a salary record by id
  report              filter and aggregate salary records

run 'epms <command> -h' for the flags of each command.`)
}
