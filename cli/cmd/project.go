// ABOUTME: Project file loading and optimization shared by the planning commands
// ABOUTME: Solves against the backend, or locally against a catalog file with --local

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/client"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/recent"
)

// projectOptions are the flags shared by optimize, select, browse and check
type projectOptions struct {
	file        string
	local       bool
	catalogPath string
	spare       float64
	spareSet    bool
}

// recentProjects is swapped in tests
var recentProjects = recent.New(recent.DefaultConfigDir())

func addProjectFlags(cmd *cobra.Command, opts *projectOptions) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Project file (YAML or JSON); defaults to the last one used")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Solve locally against --catalog instead of calling the backend")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file for --local (default: catalog from config)")
	cmd.Flags().Float64Var(&opts.spare, "spare", 0, "Spare capacity percentage applied to every panel (0-100)")
}

// bindSpare records whether --spare was given so 0 can mean "no margin".
func bindSpare(cmd *cobra.Command, opts *projectOptions) {
	opts.spareSet = cmd.Flags().Changed("spare")
}

// loadProject reads a project file. Unknown fields are rejected.
func loadProject(path string) (models.ProjectRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ProjectRequest{}, fmt.Errorf("read project %s: %w", path, err)
	}
	var project models.ProjectRequest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&project); err != nil {
		if errors.Is(err, io.EOF) {
			return models.ProjectRequest{}, fmt.Errorf("project %s is empty", path)
		}
		return models.ProjectRequest{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if len(project.Panels) == 0 {
		return models.ProjectRequest{}, fmt.Errorf("project %s has no panels", path)
	}
	return project, nil
}

// resolveProjectFile falls back to the most recently used project file.
func resolveProjectFile(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if latest, ok := recentProjects.Latest(); ok {
		return latest, nil
	}
	return "", fmt.Errorf("--file is required (no recent project file)")
}

// solveProject loads the project and returns its ranked result.
func solveProject(ctx context.Context, opts projectOptions) (*models.ProjectResult, error) {
	path, err := resolveProjectFile(opts.file)
	if err != nil {
		return nil, err
	}
	project, err := loadProject(path)
	if err != nil {
		return nil, err
	}
	if opts.spareSet {
		if opts.spare < 0 || opts.spare > 100 {
			return nil, fmt.Errorf("--spare must be between 0 and 100")
		}
		spare := opts.spare
		project.SparePct = &spare
	}

	var result *models.ProjectResult
	if opts.local {
		result, err = solveLocal(ctx, project, opts.catalogPath)
	} else {
		result, err = client.New(GetAPIURL()).OptimizeProject(ctx, project)
	}
	if err != nil {
		return nil, err
	}

	// Best effort: a read-only config dir must not fail the command
	_ = recentProjects.Remember(path)
	return result, nil
}

func solveLocal(ctx context.Context, project models.ProjectRequest, catalogPath string) (*models.ProjectResult, error) {
	catalog, err := loadLocalCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	result, err := services.OptimizeProject(ctx, project, catalog, services.ProjectOptions{
		Workers:         runtime.NumCPU(),
		DefaultSparePct: viper.GetFloat64("spare_pct"),
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func loadLocalCatalog(path string) (*models.Catalog, error) {
	if path == "" {
		path = viper.GetString("catalog")
	}
	if path == "" {
		return nil, fmt.Errorf("--local needs --catalog or a catalog entry in the config file")
	}
	return services.LoadCatalogFile(path)
}
