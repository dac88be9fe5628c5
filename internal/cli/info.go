package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fable2d/fable/internal/format"
)

// ProjectInfo summarizes a loaded project document.
type ProjectInfo struct {
	Name          string      `json:"name"`
	FormatVersion int         `json:"format_version"`
	Assets        int         `json:"assets"`
	Templates     int         `json:"templates"`
	Scenes        []SceneInfo `json:"scenes"`
}

// SceneInfo summarizes one scene.
type SceneInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int64  `json:"width"`
	Height    int64  `json:"height"`
	GridSize  int64  `json:"grid_size"`
	Instances int    `json:"instances"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "info <project.json>",
		Short:         "Summarize a project document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, code, exit, err := loadProject(path)
	if err != nil {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(exit, "failed to load project", err)
	}

	info := ProjectInfo{
		Name:          p.Name,
		FormatVersion: format.CurrentVersion,
		Assets:        p.Assets().Len(),
		Templates:     len(p.Templates()),
	}
	for _, s := range p.Scenes() {
		info.Scenes = append(info.Scenes, SceneInfo{
			ID:        s.ID,
			Name:      s.Name,
			Width:     s.Width,
			Height:    s.Height,
			GridSize:  s.GridSize,
			Instances: len(s.Instances()),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(info)
	}

	fmt.Fprintf(formatter.Writer, "Project:   %s\n", info.Name)
	fmt.Fprintf(formatter.Writer, "Format:    v%d\n", info.FormatVersion)
	fmt.Fprintf(formatter.Writer, "Assets:    %d\n", info.Assets)
	fmt.Fprintf(formatter.Writer, "Templates: %d\n", info.Templates)
	fmt.Fprintf(formatter.Writer, "Scenes:    %d\n", len(info.Scenes))
	for _, s := range info.Scenes {
		fmt.Fprintf(formatter.Writer, "  %s (%s) %dx%d grid=%d instances=%d\n",
			s.Name, s.ID, s.Width, s.Height, s.GridSize, s.Instances)
	}
	return nil
}
