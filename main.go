package main

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mb256/web/app"
	"github.com/mb256/web/assets"
	"github.com/mb256/web/config"
	"github.com/mb256/web/internal/build"
	"github.com/mb256/web/render"
)

// Templates and static files are embedded at compile time; dev mode bypasses
// them and reads from disk.
//
//go:embed templates
var templatesFS embed.FS

//go:embed public
var publicFS embed.FS

func main() {
	cliApp := &cli.App{
		Name:    "web",
		Usage:   "serves the project info site",
		Version: build.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "override the HTTP port",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "override the site env (dev or prod)",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:   "check",
				Usage:  "Validate the configuration and render every page",
				Action: check,
			},
			{
				Name:  "version",
				Usage: "Print the build version",
				Action: func(c *cli.Context) error {
					fmt.Println(build.String())
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig builds the configuration from file, environment and flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if port := c.String("port"); port != "" {
		cfg.HTTP.Port = port
	}
	if env := c.String("env"); env != "" {
		cfg.Site.Env = env
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func embeddedFS() (templates, static fs.FS, err error) {
	templates, err = fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, nil, err
	}
	static, err = fs.Sub(publicFS, "public")
	if err != nil {
		return nil, nil, err
	}
	return templates, static, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	templates, static, err := embeddedFS()
	if err != nil {
		return err
	}

	application, err := app.NewApplication(cfg, templates, static)
	if err != nil {
		return err
	}

	return application.Run()
}

// check renders every page with baseline data so broken templates fail in CI
// instead of production.
func check(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	templates, static, err := embeddedFS()
	if err != nil {
		return err
	}

	a, err := assets.New(static, cfg.Dev())
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg, templates, render.Funcs(a))
	if err != nil {
		return err
	}

	pages, err := renderer.Pages()
	if err != nil {
		return err
	}

	data := map[string]any{
		"title":      cfg.Site.Title,
		"livereload": false,
	}

	var failed bool
	for _, page := range pages {
		if err := renderer.Render(io.Discard, page, data); err != nil {
			failed = true
			fmt.Printf("❌ %s → %v\n", page, err)
			continue
		}
		fmt.Printf("✅ %s\n", page)
	}

	if failed {
		return cli.Exit("some templates failed to render", 1)
	}

	fmt.Printf("✅ %d page(s) validated successfully.\n", len(pages))
	return nil
}
