package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Digital-Shane/otr-tidy/internal/config"
	"github.com/Digital-Shane/otr-tidy/internal/core"
	"github.com/Digital-Shane/otr-tidy/internal/guide"
	oplog "github.com/Digital-Shane/otr-tidy/internal/log"
	"github.com/Digital-Shane/otr-tidy/internal/provider/builtin"
	"github.com/Digital-Shane/otr-tidy/internal/suggest"
	"github.com/Digital-Shane/otr-tidy/internal/tui/confirm"
	"github.com/Digital-Shane/otr-tidy/internal/tui/report"
	"github.com/Digital-Shane/otr-tidy/internal/tui/theme"
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

// reportNameWidth caps the name columns of the summary table.
const reportNameWidth = 60

func runRename(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var renamerOpts core.Options
	th := theme.Default()

	if opts.series != "" {
		g, err := openGuide(ctx, cfg, opts.series)
		if err != nil {
			return err
		}
		renamerOpts.Guide = g
		renamerOpts.Resolver = newResolver(cmd, th, opts.yes, cancel)
	} else {
		s, err := newSuggester(cmd, cfg, opts)
		if err != nil {
			return err
		}
		if s != nil {
			renamerOpts.Suggester = s
		}
	}

	logDir, err := oplog.DefaultDir()
	if err != nil {
		return err
	}
	journal := oplog.NewJournal(logDir, cfg.EnableLogging && !opts.dryRun)
	if err := journal.Start("otr-tidy", os.Args[1:]); err != nil {
		log.WithError(err).Warn("operation log disabled")
	}

	out := cmd.OutOrStdout()
	renamerOpts.Journal = journal
	renamerOpts.DryRun = opts.dryRun
	renamerOpts.Report = func(d core.Decision) {
		fmt.Fprintln(out, report.Line(d, th))
	}

	decisions, runErr := core.NewRenamer(renamerOpts).Run(ctx, path)

	if written, err := journal.End(); err != nil {
		log.WithError(err).Warn("failed to write operation log")
	} else if written != "" {
		log.WithField("log", written).Debug("operation log written")
	}
	if err := oplog.Cleanup(logDir, cfg.LogRetentionDays); err != nil {
		log.WithError(err).Debug("failed to prune operation logs")
	}

	if len(decisions) == 0 {
		fmt.Fprintln(out, "No recordings to rename.")
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, th.HeaderStyle().Render("Summary"))
		fmt.Fprintln(out, report.Table(decisions, reportNameWidth))
	}
	return runErr
}

func openGuide(ctx context.Context, cfg *config.Config, series string) (*guide.Guide, error) {
	fetcher := guide.NewHTTPFetcher(guide.FetcherOptions{
		Timeout:           cfg.Timeout(),
		RequestsPerWindow: cfg.RequestsPerWindow,
		Window:            cfg.Window(),
	})
	g, err := guide.Open(ctx, fetcher, series, guide.Options{
		BaseURL:   cfg.GuideURL,
		Overrides: cfg.ChannelOverrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open episode guide: %w", err)
	}
	log.WithFields(log.Fields{
		"series": series,
		"url":    g.SeriesURL(),
	}).Debug("episode guide ready")
	return g, nil
}

// newSuggester returns nil when titles are kept as recorded.
func newSuggester(cmd *cobra.Command, cfg *config.Config, opts *options) (*suggest.Suggester, error) {
	name := cfg.TitleMethod
	if cmd.Flags().Changed("method") {
		name = opts.method
	}
	method, err := suggest.ParseMethod(name)
	if err != nil {
		return nil, err
	}
	if method == suggest.MethodNone {
		return nil, nil
	}

	reg, err := builtin.NewRegistry()
	if err != nil {
		return nil, err
	}
	p, err := reg.Activate(cfg.TitleProvider, cfg.ProviderConfig(cfg.TitleProvider))
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s title lookup (providers: %s): %w",
			cfg.TitleProvider, strings.Join(reg.List(), ", "), err)
	}
	return suggest.New(method, p)
}

func newResolver(cmd *cobra.Command, th theme.Theme, yes bool, cancel context.CancelFunc) guide.AmbiguityResolver {
	in, _ := cmd.InOrStdin().(*os.File)
	resolver := confirm.Resolver(in, cmd.ErrOrStderr(), th, yes, cancel)
	if r, ok := resolver.(guide.StaticResolver); ok && !bool(r) {
		log.Debug("input is not a terminal, recordings without an exact broadcast are skipped")
	}
	return resolver
}
