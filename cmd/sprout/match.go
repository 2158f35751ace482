package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/sprout/internal/request"
)

// matchOptions holds the flags of the match command.
type matchOptions struct {
	method string
	host   string
	data   []string
	short  bool
}

func matchCmd(flags *globalFlags) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match PATH",
		Short: "Resolve a path and print the request as JSON",
		Long: `Resolve PATH, which may carry a query string and inline key:value
segments, against the route table and print the resolved request.

Values given with --data are sent as a form body; the method then
defaults to POST.`,
		Example: `  sprout match /users/view/42.json
  sprout match '/posts/list/page:2?sort=date'
  sprout match /users/edit/7 --data name=alice --data 'tags[]=a'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, table, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			resolver := request.NewResolver(table, request.WithLogger(logger))
			return runMatch(cmd, resolver, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "X", "", "Request method (default GET, or POST with --data)")
	cmd.Flags().StringVar(&opts.host, "host", "localhost", "Request host")
	cmd.Flags().StringArrayVarP(&opts.data, "data", "d", nil, "Form value as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.short, "short", false, "Print a one-line summary instead of JSON")

	return cmd
}

// runMatch resolves target and writes the JSON result to the command
// output.
func runMatch(cmd *cobra.Command, resolver *request.Resolver, target string, opts *matchOptions) error {
	req, err := newMatchRequest(target, opts)
	if err != nil {
		return err
	}

	resolved, err := resolver.Resolve(cmd.Context(), req)
	if err != nil {
		return err
	}

	if opts.short {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), describeMatch(resolved))
		return err
	}
	return writeJSON(cmd.OutOrStdout(), resolved)
}

// newMatchRequest builds the synthetic request resolved by match.
func newMatchRequest(target string, opts *matchOptions) (*http.Request, error) {
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	form := url.Values{}
	for _, pair := range opts.data {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --data %q: expected key=value", pair)
		}
		form.Add(key, value)
	}

	method := strings.ToUpper(opts.method)
	if method == "" {
		method = http.MethodGet
		if len(form) > 0 {
			method = http.MethodPost
		}
	}

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	req.Host = opts.host
	if body != nil {
		req.Header.Set("Content-Type", request.ContentTypeFormURLEncoded)
	}
	return req, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// describeMatch returns a one-line summary of a resolved request.
func describeMatch(resolved *request.Request) string {
	return fmt.Sprintf("%s %s -> %s (%s, %s)",
		resolved.Method, resolved.Path, resolved.RouteName, resolved.RoutePattern, resolved.Strategy)
}
