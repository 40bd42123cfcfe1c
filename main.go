// potui — interactive terminal editor for gettext PO translation catalogs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/potui/potui/config"
	"github.com/potui/potui/editor"
	"github.com/potui/potui/i18n"
	"github.com/potui/potui/lockfile"
	"github.com/potui/potui/merge"
	"github.com/potui/potui/pofile"
	"github.com/potui/potui/tui"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

func newRootCmd() *cobra.Command {
	var (
		createFlag bool
		fromPot    string
		langFlag   string
		filterFlag string
	)

	root := &cobra.Command{
		Use:   "potui FILE.po",
		Short: "Interactive terminal editor for gettext PO catalogs",
		Long: `potui — interactive terminal editor for gettext PO translation catalogs.

Opens a catalog in a full-screen editor with an entry list, status filters,
search, header metadata editing, fuzzy flag management and an unsaved-changes
diff. A FILE.lock next to the catalog keeps a second editor away.

Settings are read from .potui.yaml next to the catalog (falling back to
$XDG_CONFIG_HOME/potui/config.yaml): page_size, autosave, backup,
default_filter, debug_log.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args[0], createFlag, fromPot, langFlag, filterFlag)
		},
	}

	root.Flags().BoolVar(&createFlag, "create", false, "Create the file if it does not exist")
	root.Flags().StringVar(&fromPot, "from-pot", "", "Create or update the catalog from a POT template")
	root.Flags().StringVar(&langFlag, "lang", "", "Language code for a newly created catalog")
	root.Flags().StringVar(&filterFlag, "filter", "", "Startup filter: all, untranslated or fuzzy")

	root.AddCommand(
		newStatCmd(),
		newNewCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) error {
	if cfg.DebugLog == "" {
		logrus.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	logrus.SetOutput(f)
	logrus.SetLevel(logrus.DebugLevel)
	return nil
}

// openCatalog loads or creates the catalog for editing.
func openCatalog(path string, create bool, fromPot, lang string) (*pofile.Catalog, error) {
	_, statErr := os.Stat(path)
	exists := statErr == nil

	var template *pofile.Catalog
	if fromPot != "" {
		var err error
		template, err = pofile.LoadFile(fromPot)
		if err != nil {
			return nil, fmt.Errorf("loading template: %w", err)
		}
	}

	switch {
	case exists:
		cat, err := pofile.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if template != nil {
			cat = merge.Merge(cat, template)
		}
		return cat, nil
	case template != nil:
		cat := pofile.FromTemplate(template)
		if lang != "" {
			cat.SetLanguage(lang)
		}
		return cat, nil
	case create:
		cat := pofile.NewCatalog()
		if lang != "" {
			cat.SetLanguage(lang)
		}
		cat.MarkDirty()
		return cat, nil
	default:
		return nil, fmt.Errorf("%s does not exist (use --create or --from-pot)", path)
	}
}

func runEdit(path string, create bool, fromPot, lang, filterFlag string) error {
	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	cat, err := openCatalog(path, create, fromPot, lang)
	if err != nil {
		return err
	}

	filterName := cfg.DefaultFilter
	if filterFlag != "" {
		filterName = filterFlag
	}
	filter, err := editor.ParseFilter(filterName)
	if err != nil {
		return err
	}

	lock, err := lockfile.Acquire(path)
	if err != nil {
		var held *lockfile.HeldError
		if errors.As(err, &held) {
			return fmt.Errorf("%w; close the other editor or remove %s", held, held.Path)
		}
		return err
	}
	defer lock.Release()

	session := editor.NewSession(cat, cfg.PageSize)
	session.SetFilter(filter)

	logrus.Debugf("opened %s: %d entries", path, len(cat.Entries))
	m := tui.New(session, cfg, filepath.Base(path), func(text string) error {
		return writeCatalog(path, text, cfg.Backup)
	})
	return tui.Run(m)
}

// writeCatalog writes the serialized catalog, going through a temp file so
// a failed write never truncates the original. With backup enabled the
// previous version is kept as FILE.bak.
func writeCatalog(path, text string, backup bool) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return err
	}
	if backup {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, path+".bak"); err != nil {
				os.Remove(tmp)
				return err
			}
		}
	}
	return os.Rename(tmp, path)
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat FILE.po...",
		Short: "Show translation statistics for PO files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(os.Stderr, "%sTranslation Statistics%s\n", colorBlue, colorReset)
			var failed bool
			for _, path := range args {
				cat, err := pofile.LoadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %s%v%s\n", path, colorRed, err, colorReset)
					failed = true
					continue
				}
				st := cat.Stats()
				color := colorGreen
				switch {
				case st.Percent < 50:
					color = colorRed
				case st.Percent < 100:
					color = colorYellow
				}
				fmt.Fprintf(os.Stderr, "  %s%s%s: %5.1f%% (%d/%d, %d fuzzy, %d untranslated)\n",
					color, path, colorReset, st.Percent,
					st.Translated, st.Total, st.Fuzzy, st.Untranslated)
			}
			if failed {
				return errors.New("some files could not be read")
			}
			return nil
		},
	}
}

func newNewCmd() *cobra.Command {
	var (
		fromPot string
		lang    string
	)
	cmd := &cobra.Command{
		Use:   "new FILE.po",
		Short: "Create a fresh PO catalog without opening the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			cat, err := openCatalog(path, true, fromPot, lang)
			if err != nil {
				return err
			}
			if err := cat.WriteFile(path); err != nil {
				return err
			}
			logSuccess("created %s (%d entries)", path, len(cat.Entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&fromPot, "from-pot", "", "Fill the catalog from a POT template")
	cmd.Flags().StringVar(&lang, "lang", "", "Language code for the Language and Plural-Forms headers")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("potui version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
