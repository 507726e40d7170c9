package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/takescoop/tfe-varset-sync/internal/config"
	"github.com/takescoop/tfe-varset-sync/internal/logger"
	"github.com/takescoop/tfe-varset-sync/internal/report"
	syncpkg "github.com/takescoop/tfe-varset-sync/internal/sync"
	"github.com/takescoop/tfe-varset-sync/internal/tfeclient"
	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

const tokenEnvVar = "TFE_ADMIN_TOKEN"

func runSync(flags *rootFlags, mode syncpkg.Mode, autoApprove bool) error {
	if flags.configPath == "" {
		return vserrors.NewConfigError("config", "a config file is required (--config)", nil)
	}

	log, err := logger.New(logger.Options{
		Level:   flags.logLevel,
		LogFile: flags.logFile,
	})
	if err != nil {
		return vserrors.NewConfigError("log-level", err.Error(), err)
	}
	defer log.Close()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	token, err := resolveToken()
	if err != nil {
		return err
	}

	client, err := tfeclient.New(cfg.TFEURL, token)
	if err != nil {
		return vserrors.NewConfigError("tfe_url", err.Error(), err)
	}

	processor := syncpkg.NewProcessor(client, cfg.Varset(), flags.dryRun, log)
	orchestrator := syncpkg.NewOrchestrator(client, processor, syncpkg.Options{
		OrgOverride: flags.orgs,
		ConfigOrgs:  cfg.Organizations,
		Workers:     flags.maxWorkers,
		DryRun:      flags.dryRun,
		Confirm:     confirmDelete(autoApprove),
		Logger:      log,
	})

	start := time.Now()

	result, err := orchestrator.Run(context.Background(), mode)
	if err != nil {
		return err
	}

	if len(result.Records) > 0 {
		path := flags.reportPath
		if path == "" {
			path = report.DefaultFilename(time.Now())
		}
		if err := report.WriteCSV(path, result.Records); err != nil {
			log.Error(err.Error())
		} else {
			log.Info(fmt.Sprintf("report written to %s", path))
		}
	}

	log.Info(report.Summary(result))
	log.Info(fmt.Sprintf("finished in %s", time.Since(start).Round(time.Millisecond)))

	if failures := result.Failures(); failures > 0 {
		return fmt.Errorf("%d actions failed", failures)
	}

	return nil
}

// resolveToken sources the admin token from the environment, falling back to
// a hidden terminal prompt. An empty token is a fatal configuration error.
func resolveToken() (string, error) {
	if token := os.Getenv(tokenEnvVar); token != "" {
		return token, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", vserrors.NewConfigError("token", fmt.Sprintf("%s is not set and stdin is not a terminal", tokenEnvVar), nil)
	}

	fmt.Fprint(os.Stderr, "Enter your admin token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", vserrors.NewConfigError("token", err.Error(), err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", vserrors.NewConfigError("token", "an admin token is required", nil)
	}

	return token, nil
}

// confirmDelete builds the delete-mode gate: a literal "yes" at an
// interactive prompt, or --auto-approve in non-interactive contexts.
func confirmDelete(autoApprove bool) syncpkg.ConfirmFunc {
	return func(orgCount int) (bool, error) {
		if autoApprove {
			return true, nil
		}

		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return false, vserrors.NewConfigError("auto-approve", "delete requires confirmation; pass --auto-approve in non-interactive contexts", nil)
		}

		fmt.Fprintf(os.Stderr,
			"\nWARNING: you are about to DELETE the varset from %d organizations. This action is irreversible.\nType 'yes' to continue: ",
			orgCount)

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}

		return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
	}
}
