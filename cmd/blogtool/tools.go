package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenewheretics/blogtools/internal/tools"
)

// errToolFailed is returned when a tool produced an error result, so the
// process exits non-zero after printing it.
var errToolFailed = errors.New("tool failed")

// toolCommand maps a subcommand onto a registered tool.
type toolCommand struct {
	use     string
	tool    string
	aliases []string
}

var toolCommands = []toolCommand{
	{use: "create", tool: "create_post"},
	{use: "list", tool: "list_posts", aliases: []string{"ls"}},
	{use: "get", tool: "get_post"},
	{use: "update", tool: "update_post"},
	{use: "delete", tool: "delete_post", aliases: []string{"rm"}},
	{use: "toggle", tool: "toggle_publish_post", aliases: []string{"publish"}},
	{use: "drafts", tool: "list_drafts"},
	{use: "published", tool: "list_published"},
	{use: "stats", tool: "blog_stats"},
	{use: "weather", tool: "weather_forecast"},
}

// schema describes every tool's parameters. Parameter lists do not depend on
// the clients, so none are wired here.
var schema = tools.Default(nil, nil, 0, 0)

// newToolCmd builds a subcommand whose flags mirror the tool's parameters.
// The first required parameter may also be given as a positional argument.
func newToolCmd(a *app, spec toolCommand) *cobra.Command {
	t, ok := schema.Get(spec.tool)
	if !ok {
		panic(fmt.Sprintf("no tool named %q", spec.tool))
	}
	params := t.Parameters()

	var positional *tools.Param
	for i := range params {
		if params[i].Required {
			positional = &params[i]
			break
		}
	}

	use := spec.use
	args := cobra.NoArgs
	if positional != nil {
		use += " [" + positional.Name + "]"
		args = cobra.MaximumNArgs(1)
	}

	cmd := &cobra.Command{
		Use:     use,
		Aliases: spec.aliases,
		Short:   t.Description(),
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flagParams(cmd, params)
			if err != nil {
				return err
			}
			if len(args) == 1 && !p.Has(positional.Name) {
				p[positional.Name] = args[0]
			}
			return a.invoke(cmd, spec.tool, p)
		},
	}

	for _, param := range params {
		usage := param.Description
		if param.Required {
			usage += " (required)"
		}
		switch param.Type {
		case "boolean":
			cmd.Flags().Bool(param.Name, false, usage)
		default:
			cmd.Flags().String(param.Name, "", usage)
		}
	}
	return cmd
}

// flagParams collects the flags the user set explicitly. Unset flags are
// left out so the tool sees them as not provided.
func flagParams(cmd *cobra.Command, params []tools.Param) (tools.Params, error) {
	p := tools.Params{}
	for _, param := range params {
		if !cmd.Flags().Changed(param.Name) {
			continue
		}
		var (
			v   any
			err error
		)
		if param.Type == "boolean" {
			v, err = cmd.Flags().GetBool(param.Name)
		} else {
			v, err = cmd.Flags().GetString(param.Name)
		}
		if err != nil {
			return nil, err
		}
		p[param.Name] = v
	}
	return p, nil
}

// invoke runs the named tool and prints its result to stdout.
func (a *app) invoke(cmd *cobra.Command, name string, p tools.Params) error {
	t, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown tool %q (see \"blogtool tools\")", name)
	}

	res := tools.Invoke(cmd.Context(), t, p)
	fmt.Fprintln(cmd.OutOrStdout(), res.String())
	if !res.OK() {
		return errToolFailed
	}
	return nil
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <tool> [json-params]",
		Short: "Run any tool by name with a JSON object of parameters",
		Example: `  blogtool run create_post '{"title":"Hello World","content":"..."}'
  echo '{"postId": 3}' | blogtool run delete_post -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			if raw == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading parameters: %w", err)
				}
				raw = string(data)
			}

			p, err := parseJSONParams(raw)
			if err != nil {
				return err
			}
			return a.invoke(cmd, args[0], p)
		},
	}
}

// parseJSONParams decodes a JSON object. Blank input means no parameters.
func parseJSONParams(raw string) (tools.Params, error) {
	p := tools.Params{}
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parameters must be a JSON object: %w", err)
	}
	if p == nil {
		p = tools.Params{}
	}
	return p, nil
}

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools and their parameters",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, t := range a.registry.List() {
				fmt.Fprintf(w, "%s\n  %s\n", t.Name(), t.Description())
				for _, p := range t.Parameters() {
					req := ""
					if p.Required {
						req = ", required"
					}
					fmt.Fprintf(w, "    --%s (%s%s) %s\n", p.Name, p.Type, req, p.Description)
				}
			}
		},
	}
}
