package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/onboarding/internal/client/onboarding"
	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/workflow"
	"github.com/GregMSThompson/onboarding/pkg/logger"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

type app struct {
	cfg    Config
	log    *slog.Logger
	store  storage.Store
	client *onboarding.Client
	out    io.Writer
}

type rootFlags struct {
	configPath string
	baseURL    string
	provider   string
	logLevel   string
	session    string
	timeout    string
}

func rootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     app
	)

	cmd := &cobra.Command{
		Use:           "register",
		Short:         "Onboarding registration client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&flags.baseURL, "base-url", "", "Onboarding API base URL")
	pf.StringVar(&flags.provider, "provider", "", "Registration provider")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.session, "session", "", "Session file path")
	pf.StringVar(&flags.timeout, "timeout", "", "Request timeout (e.g. 10s)")

	cmd.AddCommand(
		regionsCmd(&a),
		zonesCmd(&a),
		banksCmd(&a),
		validateCmd(&a),
		submitCmd(&a),
		whoamiCmd(&a),
		logoutCmd(&a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, f rootFlags) error {
	path, required := f.configPath, true
	if path == "" {
		path, required = DefaultConfigPath(), false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return err
	}

	set := cmd.Flags().Changed
	if set("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if set("provider") {
		cfg.Provider = f.provider
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("session") {
		cfg.Session = f.session
	}
	if set("timeout") {
		d, err := time.ParseDuration(f.timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel, logger.NewCLIHandler)
	if cfg.Session != "" {
		a.store = storage.NewFileStore(cfg.Session)
	} else {
		a.store = storage.Default()
	}
	a.client = onboarding.New(cfg.BaseURL, a.store, onboarding.WithTimeout(cfg.Timeout))
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	return logger.ToContext(cmd.Context(), a.log)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func regionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regions, err := a.client.Regions(a.context(cmd))
			if err != nil {
				return err
			}
			return a.printJSON(regions)
		},
	}
}

func zonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zones REGION_ID",
		Short: "List the zones of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zones, err := a.client.Zones(a.context(cmd), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(zones)
		},
	}
}

func banksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			banks, err := a.client.Banks(a.context(cmd))
			if err != nil {
				return err
			}
			return a.printJSON(banks)
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate BANK_CODE ACCOUNT_NUMBER",
		Short: "Resolve the account name for a bank account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dto.IsAccountNumber(args[1]) {
				return fmt.Errorf("account number must be 10 digits")
			}
			resp, err := a.client.ValidateAccount(a.context(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, resp.AccountName)
			return nil
		},
	}
}

func submitCmd(a *app) *cobra.Command {
	var (
		file string
		form FormFile
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate the bank account and submit a registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				fromFile, err := LoadFormFile(file)
				if err != nil {
					return err
				}
				form = mergeForm(fromFile, form)
			}
			return a.submit(cmd, form)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML file with the form fields; flags override it")
	f.StringVar(&form.FirstName, "first-name", "", "First name")
	f.StringVar(&form.Surname, "surname", "", "Surname")
	f.StringVar(&form.Phone, "phone", "", "Phone number")
	f.StringVar(&form.Email, "email", "", "Email address")
	f.StringVar(&form.NIN, "nin", "", "National identification number")
	f.StringVar(&form.BVN, "bvn", "", "Bank verification number")
	f.StringVar(&form.Address, "address", "", "Residential address")
	f.StringVar(&form.RegionID, "region", "", "Region id")
	f.StringVar(&form.ZoneID, "zone", "", "Zone id")
	f.StringVar(&form.BankID, "bank", "", "Bank id")
	f.StringVar(&form.AccountNumber, "account-number", "", "10 digit account number")
	f.StringVar(&form.ParallexID, "parallex-id", "", "Parallex customer id")
	return cmd
}

func (a *app) submit(cmd *cobra.Command, form FormFile) error {
	ctx, stop := signal.NotifyContext(a.context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	navigated := make(chan string, 1)
	wf := workflow.New(ctx, workflow.Config{
		API:      a.client,
		Store:    a.store,
		Provider: a.cfg.Provider,
		Navigator: workflow.NavigatorFunc(func(path string) {
			navigated <- path
		}),
	})

	if form.RegionID != "" {
		if err := wf.SetRegion(ctx, form.RegionID); err != nil {
			return err
		}
	}
	fields := []struct {
		field workflow.Field
		value string
	}{
		{workflow.FieldFirstName, form.FirstName},
		{workflow.FieldSurname, form.Surname},
		{workflow.FieldPhone, form.Phone},
		{workflow.FieldEmail, form.Email},
		{workflow.FieldNIN, form.NIN},
		{workflow.FieldBVN, form.BVN},
		{workflow.FieldAddress, form.Address},
		{workflow.FieldZone, form.ZoneID},
		{workflow.FieldBank, form.BankID},
		{workflow.FieldAccountNumber, form.AccountNumber},
		{workflow.FieldParallexID, form.ParallexID},
	}
	for _, fv := range fields {
		if fv.value == "" {
			continue
		}
		if err := wf.Set(fv.field, fv.value); err != nil {
			return fmt.Errorf("%s: %w", fv.field, err)
		}
	}

	err := wf.Submit(ctx)
	snap := wf.Snapshot()
	for name, msg := range snap.FieldErrors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, msg)
	}
	if snap.Toast != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), snap.Toast.Message)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account name: %s\n", snap.AccountName)

	select {
	case <-navigated:
	case <-ctx.Done():
	}
	return nil
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the stored registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := a.store.Get(a.context(cmd), storage.KeyUser)
			if !ok {
				return fmt.Errorf("no stored registration")
			}
			fmt.Fprintln(a.out, user)
			return nil
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			a.store.Remove(ctx, storage.KeyAuthToken)
			a.store.Remove(ctx, storage.KeyUser)
			return nil
		},
	}
}

// mergeForm returns base with every non-empty field of override applied.
func mergeForm(base, override FormFile) FormFile {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return FormFile{
		FirstName:     pick(base.FirstName, override.FirstName),
		Surname:       pick(base.Surname, override.Surname),
		Phone:         pick(base.Phone, override.Phone),
		Email:         pick(base.Email, override.Email),
		NIN:           pick(base.NIN, override.NIN),
		BVN:           pick(base.BVN, override.BVN),
		Address:       pick(base.Address, override.Address),
		RegionID:      pick(base.RegionID, override.RegionID),
		ZoneID:        pick(base.ZoneID, override.ZoneID),
		BankID:        pick(base.BankID, override.BankID),
		AccountNumber: pick(base.AccountNumber, override.AccountNumber),
		ParallexID:    pick(base.ParallexID, override.ParallexID),
	}
}
