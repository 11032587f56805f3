package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

// resolveCommand creates the resolve command, which prints the effective
// direct dependencies of one coordinate without downloading anything.
func (c *CLI) resolveCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:     "resolve <groupId:artifactId:version>",
		Short:   "Print the resolved direct dependencies of a coordinate",
		Example: `  mavenfetch resolve org.apache.commons:commons-text:1.10.0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			root, err := maven.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			cfg = cfg.WithDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			fetcher := maven.NewFetcher(client, cfg.Repositories, logger)
			model, err := java.NewModel(ctx, root, fetcher, java.Options{Policy: cfg.Policy(), Logger: logger})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			printModel(model)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printModel(m *java.Model) {
	root := m.Root()
	printTitle(root.String())
	if src, ok := m.Source(root); ok {
		printKeyValue("source", src)
	}
	ext, hasBinary := java.PackageExtension(m.Packaging())
	if !hasBinary {
		ext = "none (pom)"
	}
	printKeyValue("package", ext)
	if chain := m.Chain(); len(chain) > 1 {
		for _, p := range chain[1:] {
			printKeyValue("parent", p.String())
		}
	}

	deps := m.Dependencies()
	if len(deps) == 0 {
		printInfo("No runtime dependencies")
	}
	for _, d := range deps {
		printFile(d.String())
	}
	for _, cf := range m.Conflicts() {
		printWarning("%s: kept %s, ignored %s (%s)", cf.Kept.Key(), cf.Kept.Version, cf.Rejected.Version, errors.ErrCodeVersionConflict)
	}
}
