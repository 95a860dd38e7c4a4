package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pomkit/pomkit/pkg/dataprovider"
	"github.com/pomkit/pomkit/pkg/suite"
)

const (
	defaultDataPath    = "src/test/resources/testdata.xlsx"
	defaultSheet       = "Sheet1"
	defaultHomeTitle   = "Products"
	loginTestName      = "validLoginTest"
	maxParallelContext = 16
)

type loginOptions struct {
	dataPath string
	sheet    string
	parallel int
	expect   string
}

func newLoginCommand(a *app) *cobra.Command {
	opts := loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the login check against base.url for every row of a data sheet",
		Long: "Login reads username and password pairs from the data sheet (header row skipped) " +
			"and logs in with each one in its own browser context. The run report is written to " +
			"the report directory and the command fails if any row fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataPath, "data", defaultDataPath, "data file (.xlsx or .yaml)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", defaultSheet, "sheet holding username,password rows")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "rows run concurrently, each in its own context")
	cmd.Flags().StringVar(&opts.expect, "expect-title", defaultHomeTitle, "home page title that marks a successful login")
	return cmd
}

func (a *app) runLogin(cmd *cobra.Command, opts loginOptions) error {
	if opts.parallel < 1 || opts.parallel > maxParallelContext {
		return fmt.Errorf("--parallel must be between 1 and %d", maxParallelContext)
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	log := a.newLogger(cmd, cfg)
	defer log.Close()

	rows, err := dataprovider.ReadSheet(opts.dataPath, opts.sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data rows in sheet %s of %s", opts.sheet, opts.dataPath)
	}
	log.Infof("Loaded %d login rows from %s", len(rows), opts.dataPath)

	s, err := suite.New(cfg, suite.WithLogger(log), suite.WithManagerOptions(a.managerOptions()...))
	if err != nil {
		return err
	}

	failures := runRows(cmd.Context(), s, rows, opts)

	if err := s.Close(); err != nil {
		log.Warnf("Shutdown incomplete: %v", err)
	}

	sum := s.Reporter().Summary()
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows: %d passed, %d failed. Report: %s\n",
		len(rows), len(rows)-len(failures), len(failures), s.Reporter().Dir())
	log.Infow("Login run finished", "rows", len(rows), "failed", len(failures),
		"attempts", sum.Total, "report", s.Reporter().Dir())

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d login rows failed: %w", len(failures), len(rows), errors.Join(failures...))
	}
	return nil
}

// runRows logs in once per row and returns the errors of the rows that failed.
func runRows(ctx context.Context, s *suite.Suite, rows [][]string, opts loginOptions) []error {
	errs := make([]error, len(rows))

	var g errgroup.Group
	g.SetLimit(opts.parallel)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			name := fmt.Sprintf("%s[%d]", loginTestName, i+1)
			errs[i] = s.Attempt(name, func(c *suite.Case) error {
				return login(c, cell(row, 0), cell(row, 1), opts.expect)
			})
			if errs[i] != nil {
				errs[i] = fmt.Errorf("%s: %w", name, errs[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func login(c *suite.Case, username, password, expect string) error {
	if _, err := c.LoginPage().Open(c.BaseURL()); err != nil {
		return err
	}
	if _, err := c.LoginPage().Login(username, password); err != nil {
		return err
	}

	title, err := c.HomePage().Title()
	if err != nil {
		return err
	}
	if title != expect {
		return fmt.Errorf("home page title mismatch: got %q, want %q", title, expect)
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
