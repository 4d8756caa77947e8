package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/logging"
)

// skipApp marks commands that run without opening the stores.
const skipApp = "veriuser/skip-app"

type globalFlags struct {
	configPath string
	storage    string
	dataDir    string
	logLevel   string
}

// cli carries the streams and the lazily opened application for one run.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	flags  globalFlags
	app    *app
}

// newRootCmd builds the command tree. The returned func closes whatever the
// executed command opened and must be called after Execute.
func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, func() error) {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "veriuser",
		Short:         "Verification records and certificates for social-media accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipApp] != "" {
				return nil
			}
			a, err := openApp(cmd.Context(), c.flags)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "YAML config file (default $VERIUSER_CONFIG)")
	pf.StringVar(&c.flags.storage, "storage", "", "storage backend: file, sqlite, postgres, redis or memory")
	pf.StringVar(&c.flags.dataDir, "data-dir", "", "data directory for the file and sqlite backends")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		c.addCmd(),
		c.editCmd(),
		c.rmCmd(),
		c.listCmd(),
		c.showCmd(),
		c.certifyCmd(),
		c.statusCmd(),
		c.categoryCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.migrateCmd(),
		c.versionCmd(),
	)
	return root, c.close
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// runE adapts a handler to cobra, routing it through the logging wrappers.
func (c *cli) runE(name string, fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := zap.NewNop()
		if c.app != nil {
			log = c.app.log
		}
		return logging.Wrap(log, name, func(ctx context.Context) error {
			return fn(ctx, args)
		})(cmd.Context())
	}
}
