// Package project reads and writes the pencil.yaml project file.
package project

import (
	"os"
	"path"

	"github.com/pencil-lang/pencilc/util"
	"gopkg.in/yaml.v3"
)

const ConfFileName = "pencil.yaml"

type PencilConf struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Version     string            `yaml:"version"`
	Main        string            `yaml:"main"`
	SourceDir   string            `yaml:"source"`
	Output      string            `yaml:"output"`
	Canvas      CanvasConf        `yaml:"canvas"`
	Author      string            `yaml:"author"`
	License     string            `yaml:"license"`
	Scripts     map[string]string `yaml:"scripts,omitempty"`
}

// CanvasConf sizes the drawing surface in the generated HTML harness.
type CanvasConf struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (c *PencilConf) CreateDefault(name string) {
	if name == "." {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new Pencil project"
	c.Version = "1.0.0"
	c.Main = "src/main.pncl"
	c.SourceDir = "src"
	c.Output = "out/main.js"
	c.Canvas = CanvasConf{Width: 800, Height: 600}
	c.Author = "Anonymous"
	c.License = "MIT"
}

func (c *PencilConf) Save(filepath string, overwrite bool) error {
	if _, err := os.Stat(filepath); !os.IsNotExist(err) {
		if overwrite || util.PromptYN(filepath+" already exists. Overwrite?", false) {
			os.Remove(filepath)
		} else {
			return nil
		}
	}

	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	yml, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	_, err = file.Write(yml)
	return err
}

func GetConf(dir string) (PencilConf, error) {
	var conf PencilConf

	file, err := os.Open(path.Join(dir, ConfFileName))
	if err != nil {
		return PencilConf{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&conf); err != nil {
		return PencilConf{}, err
	}

	return conf, nil
}
