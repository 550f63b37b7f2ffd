package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/authtester/internal/client"
	"github.com/vyrodovalexey/authtester/internal/fixture"
)

// requestFlags holds the flags of the request command.
type requestFlags struct {
	login   string
	noLogin bool
	scheme  string
	status  int
	content string
	json    []string
	form    []string
	cookies []string
	headers []string
}

func newRequestCmd(flags *globalFlags) *cobra.Command {
	rf := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send one authenticated request and print the response",
		Long: `Send one request to the configured application and print the status
line followed by the body.

--json values are decoded as JSON when possible, so --json n=5 sends a number
and --json name=calvin a string. The command fails when an expectation set
with --status or --content is not met.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, tracer, err := flags.load(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer shutdownTracer(tracer, logger)

			api, err := fixture.NewClient(ctx, cfg,
				fixture.WithLogger(logger),
				fixture.WithTracer(tracer),
			)
			if err != nil {
				return err
			}

			opts, err := rf.options()
			if err != nil {
				return err
			}

			res, err := api.Request(ctx, strings.ToUpper(args[0]), args[1], opts...)
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n%s\n", res.StatusCode, res.Text)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&rf.login, "login", "", "Login to authenticate as, the default login otherwise")
	f.BoolVar(&rf.noLogin, "no-login", false, "Send the request without authentication")
	f.StringVar(&rf.scheme, "scheme", "", "Authentication scheme to use")
	f.IntVar(&rf.status, "status", 0, "Expected status code")
	f.StringVar(&rf.content, "content", "", "Regular expression the body must match")
	f.StringArrayVar(&rf.json, "json", nil, "JSON body field as key=value, repeatable")
	f.StringArrayVar(&rf.form, "form", nil, "Form body field as key=value, repeatable")
	f.StringArrayVar(&rf.cookies, "cookie", nil, "Cookie as name=value, repeatable")
	f.StringArrayVar(&rf.headers, "header", nil, "Header as name=value, repeatable")
	cmd.MarkFlagsMutuallyExclusive("login", "no-login")

	return cmd
}

func (rf *requestFlags) options() ([]client.RequestOption, error) {
	var opts []client.RequestOption

	switch {
	case rf.noLogin:
		opts = append(opts, client.WithoutLogin())
	case rf.login != "":
		opts = append(opts, client.WithLogin(rf.login))
	}
	if rf.scheme != "" {
		opts = append(opts, client.WithSchemeName(rf.scheme))
	}
	if rf.status != 0 {
		opts = append(opts, client.ExpectStatus(rf.status))
	}
	if rf.content != "" {
		opts = append(opts, client.ExpectContent(rf.content))
	}

	if len(rf.json) > 0 {
		fields, err := parsePairs("json", rf.json, decodeValue)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithJSON(fields))
	}
	if len(rf.form) > 0 {
		fields, err := parsePairs("form", rf.form, func(v string) any { return v })
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithForm(fields))
	}
	if len(rf.cookies) > 0 {
		cookies, err := parsePairs("cookie", rf.cookies, func(v string) any { return v })
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithCookies(toStrings(cookies)))
	}
	if len(rf.headers) > 0 {
		headers, err := parsePairs("header", rf.headers, func(v string) any { return v })
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithHeaders(toStrings(headers)))
	}

	return opts, nil
}

func parsePairs(flag string, pairs []string, value func(string) any) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--%s: expecting key=value, got %q", flag, pair)
		}
		fields[key] = value(val)
	}
	return fields, nil
}

func decodeValue(v string) any {
	var decoded any
	if err := json.Unmarshal([]byte(v), &decoded); err != nil {
		return v
	}
	return decoded
}

func toStrings(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k], _ = v.(string)
	}
	return out
}
