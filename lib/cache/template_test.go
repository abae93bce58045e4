package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pencil-lang/pencilc/lib/cache"
	"github.com/pencil-lang/pencilc/lib/project"
)

func tempCache(t *testing.T) *cache.TemplateCache {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, "templates")
	require.NoError(t, os.Mkdir(base, 0700))
	return &cache.TemplateCache{
		RootDir: root,
		BaseDir: base,
		TplList: []cache.Template{},
	}
}

func writeTemplate(t *testing.T, c *cache.TemplateCache, identifier, branch, name string) {
	t.Helper()
	dir := filepath.Join(c.BaseDir, identifier, branch)
	require.NoError(t, os.MkdirAll(dir, 0700))

	conf := project.PencilConf{}
	conf.CreateDefault(name)
	require.NoError(t, conf.Save(filepath.Join(dir, project.ConfFileName), true))
}

func TestFindTemplate(t *testing.T) {
	c := &cache.TemplateCache{TplList: []cache.Template{
		{Name: "starter", Version: "1.2.0", Branch: "main", Identifier: "github.com/pencil-lang/starter"},
		{Name: "starter", Version: "2.0.0", Branch: "dev", Identifier: "github.com/pencil-lang/starter"},
	}}

	tpl, found := c.FindTemplate("github.com/pencil-lang/starter", "dev")
	require.True(t, found)
	assert.Equal(t, "dev", tpl.Branch)

	// Shorthand without the host resolves too.
	tpl, found = c.FindTemplate("pencil-lang/starter", "main")
	require.True(t, found)
	assert.Equal(t, "main", tpl.Branch)

	// Empty branch matches any installed branch.
	_, found = c.FindTemplate("pencil-lang/starter", "")
	assert.True(t, found)

	_, found = c.FindTemplate("pencil-lang/other", "main")
	assert.False(t, found)
}

func TestFindTemplateByVersion(t *testing.T) {
	c := &cache.TemplateCache{TplList: []cache.Template{
		{Name: "starter", Version: "1.2.0", Branch: "main", Identifier: "github.com/pencil-lang/starter"},
		{Name: "starter", Version: "2.1.0", Branch: "next", Identifier: "github.com/pencil-lang/starter"},
	}}

	tests := []struct {
		selector string
		found    bool
		branch   string
	}{
		{"1.2.0", true, "main"},
		{"^1.0.0", true, "main"},
		{"~1.2.0", true, "main"},
		{">2.0.0", true, "next"},
		{"^3.0.0", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			tpl, found := c.FindTemplate("pencil-lang/starter", tt.selector)
			require.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.branch, tpl.Branch)
			}
		})
	}
}

func TestCacheSaveAndScan(t *testing.T) {
	c := tempCache(t)
	c.TplList = []cache.Template{
		{Name: "starter", Branch: "main", Identifier: "github.com/pencil-lang/starter", Path: "/tmp/starter"},
	}
	require.NoError(t, c.CacheSave())

	fresh := &cache.TemplateCache{RootDir: c.RootDir, BaseDir: c.BaseDir}
	require.NoError(t, fresh.CacheScan(false))
	assert.Equal(t, c.TplList, fresh.TplList)
}

func TestCacheScanMissingIndex(t *testing.T) {
	c := tempCache(t)
	err := c.CacheScan(false)
	assert.True(t, os.IsNotExist(err))
}

func TestDeepCacheScan(t *testing.T) {
	c := tempCache(t)
	writeTemplate(t, c, "github.com/pencil-lang/starter", "main", "starter")
	writeTemplate(t, c, "github.com/pencil-lang/gallery", "dev", "gallery")

	require.NoError(t, c.DeepCacheScan())
	require.Len(t, c.TplList, 2)

	byName := map[string]cache.Template{}
	for _, tpl := range c.TplList {
		byName[tpl.Name] = tpl
	}
	assert.Equal(t, "main", byName["starter"].Branch)
	assert.Equal(t, "github.com/pencil-lang/starter", byName["starter"].Identifier)
	assert.Equal(t, "dev", byName["gallery"].Branch)
}

func TestCacheScanFallsBackToDeepScan(t *testing.T) {
	c := tempCache(t)
	writeTemplate(t, c, "github.com/pencil-lang/starter", "main", "starter")

	require.NoError(t, c.CacheScan(true))
	require.Len(t, c.TplList, 1)

	// The deep scan result is persisted for the next load.
	fresh := &cache.TemplateCache{RootDir: c.RootDir, BaseDir: c.BaseDir}
	require.NoError(t, fresh.CacheScan(false))
	assert.Equal(t, c.TplList, fresh.TplList)
}

func commitConf(t *testing.T, repo *git.Repository, dir string, conf project.PencilConf, msg string) {
	t.Helper()
	require.NoError(t, conf.Save(filepath.Join(dir, project.ConfFileName), true))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(project.ConfFileName)
	require.NoError(t, err)
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestUpdateTemplate(t *testing.T) {
	c := tempCache(t)

	remote := filepath.Join(t.TempDir(), "starter")
	require.NoError(t, os.MkdirAll(remote, 0700))
	repo, err := git.PlainInit(remote, false)
	require.NoError(t, err)

	conf := project.PencilConf{}
	conf.CreateDefault("starter")
	commitConf(t, repo, remote, conf, "initial")

	// Clone to where UpdateTemplate expects this url and branch.
	local := filepath.Join(c.BaseDir, remote, "master")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0700))
	_, err = git.PlainClone(local, false, &git.CloneOptions{
		URL:           remote,
		SingleBranch:  true,
		ReferenceName: plumbing.NewBranchReferenceName("master"),
	})
	require.NoError(t, err)

	c.TplList = []cache.Template{{
		Name:       "starter",
		Version:    conf.Version,
		Branch:     "master",
		Identifier: remote,
		Path:       local,
	}}

	// Bump the version upstream; update pulls it in.
	conf.Version = "1.1.0"
	commitConf(t, repo, remote, conf, "bump version")

	got, tpl, err := c.UpdateTemplate(remote, "master")
	require.NoError(t, err)
	assert.Equal(t, "starter", got.Name)
	assert.Equal(t, "1.1.0", got.Version)
	assert.Equal(t, "1.1.0", tpl.Version)
	assert.Equal(t, local, tpl.Path)

	// The index entry picks up the refreshed version and is persisted.
	assert.Equal(t, "1.1.0", c.TplList[0].Version)
	fresh := &cache.TemplateCache{RootDir: c.RootDir, BaseDir: c.BaseDir}
	require.NoError(t, fresh.CacheScan(false))
	assert.Equal(t, c.TplList, fresh.TplList)
}

func TestUpdateTemplateMissing(t *testing.T) {
	c := tempCache(t)
	_, _, err := c.UpdateTemplate("https://github.com/pencil-lang/none", "main")
	assert.Error(t, err)
}
