package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mavenfetch/pkg/deps"
	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/graph"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

type fetchOptions struct {
	config configFlags
	output string
	graph  string
	report string
	dryRun bool
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <groupId:artifactId:version>...",
		Short: "Download artifacts and their transitive dependencies",
		Long: `Resolve each coordinate transitively and download the package of every
resolved coordinate into the output directory.

Repositories are tried in order for each POM; the package is downloaded
from the repository that served its POM.`,
		Example: `  mavenfetch fetch org.apache.commons:commons-lang3:3.12.0
  mavenfetch fetch -o lib -r https://repo1.maven.org/maven2,https://maven.google.com com.google.guava:guava:33.0.0-jre
  mavenfetch fetch --dry-run --graph deps.svg junit:junit:4.13.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, args, opts)
		},
	}

	opts.config.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default \".\")")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "write the resolution graph (.json, .dot or .svg)")
	cmd.Flags().StringVar(&opts.report, "report", "", "write a JSON run report")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve without downloading packages")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, args []string, opts fetchOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	roots, err := parseCoordinates(args)
	if err != nil {
		return err
	}

	cfg, err := opts.config.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = opts.output
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !opts.dryRun {
		if err := prepareOutput(cfg.Output); err != nil {
			return err
		}
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	probing := newSpinner(ctx, cmd.ErrOrStderr(), "Probing repositories...")
	probing.start()
	repos, err := maven.ProbeRepositories(ctx, client, cfg.Repositories, logger)
	probing.stop()
	if err != nil {
		return err
	}

	driverOpts := deps.Options{
		Fetcher:      maven.NewFetcher(client, repos, logger),
		Policy:       cfg.Policy(),
		Repositories: repos,
		Logger:       logger,
	}
	if !opts.dryRun {
		driverOpts.Store = maven.NewPersister(client, cfg.Output)
	}
	d := deps.NewDriver(driverOpts)

	prog := newProgress(logger)
	report := d.Run(ctx, roots)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Resolved %d coordinates", len(report.Resolved)))

	if err := writeOutputs(ctx, logger, d, opts); err != nil {
		return err
	}
	printSummary(report, opts.dryRun)
	return nil
}

func parseCoordinates(args []string) ([]maven.Coordinate, error) {
	coords := make([]maven.Coordinate, 0, len(args))
	for _, arg := range args {
		c, err := maven.ParseCoordinate(arg)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// prepareOutput creates the output directory, failing if path is a file.
func prepareOutput(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return errors.New(errors.ErrCodeInvalidPath, "output %s is not a directory", path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "output %s", path)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output %s", path)
	}
	return nil
}

func writeOutputs(ctx context.Context, logger *log.Logger, d *deps.Driver, opts fetchOptions) error {
	if opts.graph != "" {
		if err := graph.ExportFile(ctx, d.Graph(), opts.graph); err != nil {
			return err
		}
		logger.Debug("graph written", "path", opts.graph)
		printFile(opts.graph)
	}
	if opts.report != "" {
		if err := errors.ValidatePath(opts.report); err != nil {
			return err
		}
		if err := d.Report().ExportJSON(opts.report); err != nil {
			return err
		}
		logger.Debug("report written", "path", opts.report)
		printFile(opts.report)
	}
	return nil
}
