package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/provide-io/apphost/go/apphost/pkg/apphost/hostwriter"
	"github.com/provide-io/apphost/go/apphost/pkg/logging"
	"github.com/provide-io/apphost/go/apphost/pkg/utils/permissions"
)

const version = "0.1.0"

var (
	templatePath   string
	outputPath     string
	appBinaryPath  string
	guiSubsystem   bool
	resourceSource string
	chmodString    string
	bundleOffset   int64
	logLevel       string
	versionFlag    bool

	rootCmd *cobra.Command
)

func getWriterTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "apphost-go-writer",
		Short: "Produce apphost launchers from prebuilt templates",
		Long:  `Produce native apphost launchers by patching a prebuilt template executable`,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an apphost for a managed payload",
		RunE:  runCreate,
	}
	createCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Path to the apphost template (required)")
	createCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination path for the apphost (required)")
	createCmd.Flags().StringVarP(&appBinaryPath, "app-binary", "a", "", "Path to the managed payload, embedded into the apphost (required)")
	createCmd.Flags().BoolVar(&guiSubsystem, "gui", false, "Mark the apphost as a Windows GUI application")
	createCmd.Flags().StringVar(&resourceSource, "resources", "", "PE image to copy version/icon resources from")
	createCmd.Flags().StringVar(&chmodString, "chmod", "", "Octal permissions for the apphost on POSIX targets (default 755)")
	for _, flag := range []string{"template", "output", "app-binary"} {
		if err := createCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}

	setBundleCmd := &cobra.Command{
		Use:   "set-bundle",
		Short: "Record the bundle metadata offset in an apphost",
		RunE:  runSetBundle,
	}
	setBundleCmd.Flags().StringVarP(&outputPath, "apphost", "p", "", "Path to the apphost (required)")
	setBundleCmd.Flags().Int64Var(&bundleOffset, "offset", 0, "File offset of the bundle metadata (required)")
	for _, flag := range []string{"apphost", "offset"} {
		if err := setBundleCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}

	isBundleCmd := &cobra.Command{
		Use:   "is-bundle",
		Short: "Report whether an apphost carries single-file bundle metadata",
		RunE:  runIsBundle,
	}
	isBundleCmd.Flags().StringVarP(&outputPath, "apphost", "p", "", "Path to the apphost (required)")
	if err := isBundleCmd.MarkFlagRequired("apphost"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(createCmd, setBundleCmd, isBundleCmd)
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("apphost-go-writer %s\n", version)
		fmt.Printf("Built: %s\n", getWriterTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersionIfRequested() bool {
	if versionFlag {
		fmt.Printf("apphost-go-writer %s\n", version)
		fmt.Printf("Built: %s\n", getWriterTimestamp())
	}
	return versionFlag
}

func runCreate(cmd *cobra.Command, args []string) error {
	if printVersionIfRequested() {
		return nil
	}
	logger := logging.NewLogger("apphost-go-writer", logging.GetLogLevel(logLevel), nil)

	mode, err := permissions.ParseOctalString(chmodString)
	if err != nil {
		return err
	}

	return hostwriter.CreateAppHost(hostwriter.CreateOptions{
		TemplatePath:       templatePath,
		DestinationPath:    outputPath,
		AppBinaryPath:      appBinaryPath,
		WindowsGUI:         guiSubsystem,
		ResourceSourcePath: resourceSource,
		Mode:               uint32(mode),
	}, logger)
}

func runSetBundle(cmd *cobra.Command, args []string) error {
	if printVersionIfRequested() {
		return nil
	}
	logger := logging.NewLogger("apphost-go-writer", logging.GetLogLevel(logLevel), nil)
	return hostwriter.SetAsBundle(outputPath, bundleOffset, logger)
}

func runIsBundle(cmd *cobra.Command, args []string) error {
	if printVersionIfRequested() {
		return nil
	}
	logger := logging.NewLogger("apphost-go-writer", logging.GetLogLevel(logLevel), nil)

	isBundle, offset, err := hostwriter.IsBundle(outputPath, logger)
	if err != nil {
		return err
	}

	fmt.Printf("bundle=%t offset=%d\n", isBundle, offset)
	return nil
}
