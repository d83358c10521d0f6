package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/summon-dev/summon/internal/demo"
	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/ssr"
)

func renderCmd(configPath *string) *cobra.Command {
	var (
		output  string
		state   string
		pretty  bool
		hydrate bool
	)

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a page to HTML",
		Long: `Render one demo page to a complete HTML document.

The page is named by its path or its name (see 'summon pages'). Initial
state is given as a JSON object and restored into saveable state.

Examples:
  summon render /
  summon render todos --state='{"todos":[{"id":1,"title":"milk"}]}'
  summon render about --pretty -o about.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			page, ok := demo.Find(args[0])
			if !ok {
				return summonerr.New("E052").
					WithDetail(fmt.Sprintf("No page named %q", args[0])).
					WithSuggestion("Run 'summon pages' to list the available pages")
			}

			rc := &ssr.RenderContext{
				Hydrate: hydrate,
				SEO:     page.SEO,
				Head:    page.Head,
				Lang:    cfg.Render.Lang,
			}
			if state != "" {
				if err := json.Unmarshal([]byte(state), &rc.InitialState); err != nil {
					return summonerr.New("E050").
						WithDetail("--state is not a JSON object: " + err.Error())
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			r := ssr.NewRenderer(
				ssr.WithLogger(newLogger(cfg.Log, cmd.ErrOrStderr())),
				ssr.WithPretty(pretty || cfg.Render.Pretty),
			)
			res, err := r.RenderToWriter(context.Background(), w, rc, page.Root)
			if err != nil {
				return err
			}
			if output != "" {
				success(cmd.ErrOrStderr(), "Rendered %s to %s in %s", page.Name, output, res.Duration)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().StringVar(&state, "state", "", "Initial state as a JSON object")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the body markup")
	cmd.Flags().BoolVar(&hydrate, "hydrate", true, "Embed the hydration state script")

	return cmd
}
