// Command noticecheck validates interest payment notices from the shell,
// either in-process or against a running validator service.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/interest-notice-validator/client"
	"github.com/Aashish23092/interest-notice-validator/config"
	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/logging"
	"github.com/Aashish23092/interest-notice-validator/service"
)

const (
	exitPass  = 0
	exitFail  = 1
	exitError = 2
)

var errVerdictFailed = errors.New("notice failed validation")

type app struct {
	cfg      *config.Config
	server   string
	logLevel string
	asJSON   bool

	newValidator func() (noticeValidator, func(), error)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	a := &app{cfg: config.LoadConfig()}
	a.newValidator = a.validator

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitPass
	case errors.Is(err, errVerdictFailed):
		return exitFail
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	printFailure(stderr, err)
	return exitError
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "noticecheck",
		Short:         "Validate the interest amount on interest payment notices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.server, "server", "", "validate through a remote service at this URL instead of in-process")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level for in-process validation")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print the full response as JSON")

	root.AddCommand(a.validateCommand(), a.fieldsCommand(), a.sampleCommand())
	return root
}

// validator returns the in-process pipeline, or the remote client when
// --server is set. The returned func releases the logger.
func (a *app) validator() (noticeValidator, func(), error) {
	if a.server != "" {
		return client.NewNoticeClient(a.server, a.cfg.ClientTimeout), func() {}, nil
	}

	cfg := *a.cfg
	cfg.LogLevel = a.logLevel
	cfg.LogFile = ""
	logger, err := logging.New(&cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewNoticeService(service.NewPDFProcessor(), logger)
	return svc, func() { _ = logger.Sync() }, nil
}

// printFailure lists the per-field reasons of a pipeline rejection.
func printFailure(w io.Writer, err error) {
	var failure *dto.FailureResponse
	if f, ok := dto.NewFailureResponse(err); ok {
		failure = &f
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		failure = apiErr.Response.Failure
	}
	if failure == nil {
		return
	}

	fmt.Fprintf(w, "Stage: %s\n", failure.Stage)
	for _, f := range failure.Fields {
		fmt.Fprintf(w, "  - %s\n", f.String())
	}
}
