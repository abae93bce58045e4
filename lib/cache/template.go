// Package cache keeps cloned project templates under the user's lib
// directory, with a gob-encoded index so repeat lookups skip the disk walk.
package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pencil-lang/pencilc/lib/project"
	"github.com/pencil-lang/pencilc/util"
)

type TemplateCache struct {
	BaseDir string
	RootDir string
	TplList []Template
}

type Template struct {
	Name       string
	Version    string
	Branch     string
	Identifier string
	Path       string
}

func (c *TemplateCache) Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	libDir := path.Join(homeDir, ".local", "lib", "pencilc")
	if runtime.GOOS == "windows" {
		libDir = path.Join(homeDir, "AppData", "Local", "Programs", "pencilc")
	}

	err = os.MkdirAll(libDir, 0700)
	if err != nil {
		return err
	}

	tplDir := path.Join(libDir, "templates")
	err = os.Mkdir(tplDir, 0700)
	if err != nil && !os.IsExist(err) {
		return err
	}

	c.RootDir = libDir
	c.BaseDir = tplDir
	c.TplList = make([]Template, 0)

	return nil
}

// DeepCacheScan rebuilds the index by walking the template directory and
// reading each template's project file.
func (c *TemplateCache) DeepCacheScan() error {
	return filepath.WalkDir(c.BaseDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		conf, err := project.GetConf(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		identifier := strings.TrimPrefix(p, c.BaseDir)
		identifier = strings.TrimPrefix(identifier, "/")
		split := strings.Split(identifier, "/")
		branch := split[len(split)-1]
		identifier = strings.TrimSuffix(identifier, "/"+branch)

		c.TplList = append(c.TplList, Template{
			Name:       conf.Name,
			Version:    conf.Version,
			Branch:     branch,
			Identifier: identifier,
			Path:       p,
		})
		return filepath.SkipDir
	})
}

func (c *TemplateCache) CacheScan(deepOnFail bool) error {
	cacheFile, err := os.Open(path.Join(c.RootDir, "templates.bin"))
	if err != nil {
		if os.IsNotExist(err) && deepOnFail {
			fmt.Println("Cache file not found, performing deep scan...")
			if err := c.DeepCacheScan(); err != nil {
				return err
			}
			return c.CacheSave()
		}
		return err
	}
	defer cacheFile.Close()

	decoder := gob.NewDecoder(cacheFile)
	return decoder.Decode(&c.TplList)
}

func (c *TemplateCache) CacheSave() error {
	cacheFile, err := os.Create(path.Join(c.RootDir, "templates.bin"))
	if err != nil {
		return err
	}
	defer cacheFile.Close()

	encoder := gob.NewEncoder(cacheFile)
	return encoder.Encode(c.TplList)
}

// FindTemplate looks up an installed template. The selector picks between
// installed copies: empty or "*" takes any, a branch name matches exactly,
// and a version constraint (`^1.2.0`, `~1.0.0`, `>`, `<`, or a bare version)
// is matched against the template's config version.
func (c *TemplateCache) FindTemplate(identifier, selector string) (Template, bool) {
	for _, tpl := range c.TplList {
		if tpl.Identifier != identifier && tpl.Identifier != "github.com/"+identifier {
			continue
		}
		if matchesSelector(tpl, selector) {
			return tpl, true
		}
	}
	return Template{}, false
}

func matchesSelector(tpl Template, selector string) bool {
	if selector == "" || selector == "*" || selector == tpl.Branch {
		return true
	}
	v, err := util.Parse(tpl.Version)
	if err != nil {
		return false
	}
	ok, err := v.Satisfies(selector)
	return err == nil && ok
}

// InstallTemplate clones one branch of the template repository into the
// cache and indexes it.
func (c *TemplateCache) InstallTemplate(tplurl, branch string) (project.PencilConf, Template, error) {
	installDir := filepath.Join(c.BaseDir, strings.TrimPrefix(tplurl, "https://"), branch)
	if err := os.MkdirAll(installDir, 0700); err != nil {
		return project.PencilConf{}, Template{}, err
	}

	_, err := git.PlainClone(installDir, false, &git.CloneOptions{
		URL:           tplurl,
		SingleBranch:  true,
		Depth:         1,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		return project.PencilConf{}, Template{}, err
	}

	conf, err := project.GetConf(installDir)
	if err != nil {
		return project.PencilConf{}, Template{}, err
	}

	tpl := Template{
		Name:       conf.Name,
		Version:    conf.Version,
		Branch:     branch,
		Identifier: strings.TrimPrefix(tplurl, "https://"),
		Path:       installDir,
	}
	c.TplList = append(c.TplList, tpl)
	if err := c.CacheSave(); err != nil {
		return project.PencilConf{}, Template{}, err
	}

	return conf, tpl, nil
}

// UpdateTemplate pulls the latest commit for an already installed template.
func (c *TemplateCache) UpdateTemplate(tplurl, branch string) (project.PencilConf, Template, error) {
	updateDir := filepath.Join(c.BaseDir, strings.TrimPrefix(tplurl, "https://"), branch)

	repo, err := git.PlainOpen(updateDir)
	if err != nil {
		return project.PencilConf{}, Template{}, err
	}

	w, err := repo.Worktree()
	if err != nil {
		return project.PencilConf{}, Template{}, err
	}

	err = w.Pull(&git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return project.PencilConf{}, Template{}, err
	}

	conf, err := project.GetConf(updateDir)
	if err != nil {
		return project.PencilConf{}, Template{}, err
	}

	tpl := Template{
		Name:       conf.Name,
		Version:    conf.Version,
		Branch:     branch,
		Identifier: strings.TrimPrefix(tplurl, "https://"),
		Path:       updateDir,
	}

	// Refresh the index entry so version-constraint lookups see the
	// pulled config.
	for i := range c.TplList {
		if c.TplList[i].Identifier == tpl.Identifier && c.TplList[i].Branch == branch {
			c.TplList[i] = tpl
			if err := c.CacheSave(); err != nil {
				return project.PencilConf{}, Template{}, err
			}
			break
		}
	}

	return conf, tpl, nil
}
