package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/pencil-lang/pencilc/lib/cache"
	"github.com/pencil-lang/pencilc/lib/project"
	"github.com/pencil-lang/pencilc/util"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new Pencil project",
		Category:  "project",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "The version of the project",
			},
			&cli.StringFlag{
				Name:    "author",
				Aliases: []string{"a"},
				Usage:   "The author of the project",
			},
			&cli.StringFlag{
				Name:    "license",
				Aliases: []string{"l"},
				Usage:   "The license of the project",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Start from an installed template instead of the default scaffold",
			},
		},
		Action: initProject,
	}, &cli.Command{
		Name:    "install",
		Aliases: []string{"i"},
		Usage:   "Install a project template from a git repository",
		Description: "Clones a template repository into the template cache." +
			"\nUse <url>@<branch> to pick a branch; the default is 'main'." +
			"\nShorthand like user/repo expands to github.com/user/repo." +
			"\nInstalled templates are available to 'pencilc init --template'.",
		Category:  "project",
		ArgsUsage: "<url>",
		Action:    install,
	}, &cli.Command{
		Name:  "update",
		Usage: "Update an installed template to the latest commit",
		Description: "Pulls the latest commit for a template already in the cache." +
			"\nUse <url>@<branch> to pick a branch; the default is 'main'.",
		Category:  "project",
		ArgsUsage: "<url>",
		Action:    update,
	})
}

func initProject(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.Exit(color.RedString("Error creating project directory: %s", err), 1)
	}

	defName := filepath.Base(dir)
	if dir == "." {
		if cwd, err := os.Getwd(); err == nil {
			defName = filepath.Base(cwd)
		}
	}

	name := c.String("name")
	if name == "" {
		name = util.PromptString("Project name", defName)
	}

	version := c.String("version")
	if version == "" {
		version = util.PromptString("Version", "1.0.0")
	}
	if _, err := util.Parse(version); err != nil {
		return cli.Exit(color.RedString("Invalid version %q: %s", version, err), 1)
	}

	author := c.String("author")
	if author == "" {
		author = util.PromptString("Author", "Anonymous")
	}

	license := c.String("license")
	if license == "" {
		license = util.PromptString("License", "MIT")
	}

	if tpl := c.String("template"); tpl != "" {
		if err := initFromTemplate(dir, tpl); err != nil {
			return err
		}
	} else if err := scaffold(dir); err != nil {
		return cli.Exit(color.RedString("Error creating scaffold: %s", err), 1)
	}

	conf := project.PencilConf{}
	conf.CreateDefault(name)
	conf.Version = version
	conf.Author = author
	conf.License = license

	if err := conf.Save(filepath.Join(dir, project.ConfFileName), false); err != nil {
		return cli.Exit(color.RedString("Error saving %s: %s", project.ConfFileName, err), 1)
	}

	color.Green("Initialized project %s in %s", name, dir)
	return nil
}

const defaultMain = `// Draw a scene and spin it
let cx = 400
let cy = 300

scene {
  circle at (cx, cy) size 80 color #4287f5
  rect at (cx, cy + 150) size 200 40 color #f5a142
}

animate {
  rotate 1
}
`

func scaffold(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		return err
	}
	mainFile := filepath.Join(dir, "src", "main.pncl")
	if _, err := os.Stat(mainFile); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(mainFile, []byte(defaultMain), 0644)
}

func initFromTemplate(dir, ident string) error {
	tcache := cache.TemplateCache{}
	if err := tcache.Init(); err != nil {
		return cli.Exit(color.RedString("Error opening template cache: %s", err), 1)
	}
	if err := tcache.CacheScan(true); err != nil {
		return cli.Exit(color.RedString("Error scanning template cache: %s", err), 1)
	}

	ident, branch := splitBranch(ident)
	tpl, found := tcache.FindTemplate(ident, branch)
	if !found {
		return cli.Exit(color.RedString("Template %s not installed; run 'pencilc install %s' first", ident, ident), 1)
	}

	if err := copyTree(tpl.Path, dir); err != nil {
		return cli.Exit(color.RedString("Error copying template: %s", err), 1)
	}
	return nil
}

func install(c *cli.Context) error {
	tplurl := c.Args().First()
	if tplurl == "" {
		return cli.Exit(color.RedString("Error: no template url specified"), 1)
	}

	tcache := cache.TemplateCache{}
	if err := tcache.Init(); err != nil {
		return err
	}
	if err := tcache.CacheScan(true); err != nil {
		return err
	}

	tplurl, branch, err := PrepUrl(tplurl)
	if err != nil {
		return err
	}

	var conf project.PencilConf
	tpl, found := tcache.FindTemplate(strings.TrimPrefix(tplurl, "https://"), branch)
	if found {
		conf, err = project.GetConf(tpl.Path)
		if err != nil {
			return err
		}
	} else {
		color.Green("Template not found locally, cloning...")
		conf, tpl, err = tcache.InstallTemplate(tplurl, branch)
		if err != nil {
			return err
		}
	}

	fmt.Println("--------------------------------------------------")
	fmt.Println("                 Template Details                 ")
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Name        : %s\n", conf.Name)
	fmt.Printf("Description : %s\n", conf.Description)
	fmt.Printf("Version     : %s\n", conf.Version)
	fmt.Printf("Main File   : %s\n", conf.Main)
	fmt.Printf("Author      : %s\n", conf.Author)
	fmt.Printf("License     : %s\n", conf.License)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Use it with: pencilc init --template %s\n", tpl.Identifier)

	return nil
}

func update(c *cli.Context) error {
	tplurl := c.Args().First()
	if tplurl == "" {
		return cli.Exit(color.RedString("Error: no template url specified"), 1)
	}

	tcache := cache.TemplateCache{}
	if err := tcache.Init(); err != nil {
		return err
	}
	if err := tcache.CacheScan(true); err != nil {
		return err
	}

	tplurl, branch, err := PrepUrl(tplurl)
	if err != nil {
		return err
	}

	ident := strings.TrimPrefix(tplurl, "https://")
	if _, found := tcache.FindTemplate(ident, branch); !found {
		return cli.Exit(color.RedString("Template %s not installed; run 'pencilc install %s' first", ident, ident), 1)
	}

	conf, tpl, err := tcache.UpdateTemplate(tplurl, branch)
	if err != nil {
		return cli.Exit(color.RedString("Error updating template: %s", err), 1)
	}

	color.Green("Updated %s to version %s", tpl.Identifier, conf.Version)
	return nil
}

// PrepUrl normalizes a template reference: `user/repo` becomes a github URL,
// a missing scheme gets https, and an optional @branch suffix is split off.
func PrepUrl(tplurl string) (u, branch string, e error) {
	branch = "main"
	if strings.Contains(tplurl, "@") {
		split := strings.Split(tplurl, "@")
		tplurl = split[0]
		branch = split[1]
	} else {
		color.Yellow("Branch name not specified, defaulting to 'main'")
	}

	parsedUrl, err := url.Parse(tplurl)
	if err != nil {
		return "", "", err
	}

	if parsedUrl.Hostname() == "" {
		tplurl = "https://github.com/" + tplurl
	}

	if !strings.HasPrefix(tplurl, "http://") && !strings.HasPrefix(tplurl, "https://") {
		tplurl = "https://" + tplurl
	}
	return tplurl, branch, nil
}

func splitBranch(ident string) (string, string) {
	if i := strings.LastIndex(ident, "@"); i >= 0 {
		return ident[:i], ident[i+1:]
	}
	return ident, ""
}

// copyTree copies a template's files into dst, skipping git metadata and
// the template's own config; init writes a fresh one.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0755)
		}
		if rel == project.ConfFileName {
			return nil
		}

		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.Create(filepath.Join(dst, rel))
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
