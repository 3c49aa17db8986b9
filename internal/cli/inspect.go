package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		template    string
		depth       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [bundle.json]",
		Short: "Print the scene trees of a bundle",
		Long: `Print the scene trees of a bundle produced by 'build'.

Without flags every screen and component is printed. Use --template to print
one of them or --interactive to pick it from a list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := scene.ReadBundleFile(args[0])
			if err != nil {
				return fmt.Errorf("load bundle %s: %w", args[0], err)
			}

			assets := slices.Concat(b.Screens, b.Components)
			switch {
			case interactive:
				a, ok, err := pickTemplate(assets)
				if err != nil || !ok {
					return err
				}
				assets = []scene.Asset{a}
			case template != "":
				a, ok := b.Asset(template)
				if !ok {
					return errors.New(errors.ErrCodeTemplateNotFound, "template %q not in bundle", template)
				}
				assets = []scene.Asset{a}
			}

			for _, a := range assets {
				fmt.Fprintln(c.Out, renderAsset(a, depth))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "print only this screen or component")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum tree depth (0 = unlimited)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the template interactively")

	return cmd
}

// pickTemplate runs the interactive template list. ok is false when the
// user quit without choosing.
func pickTemplate(assets []scene.Asset) (scene.Asset, bool, error) {
	if len(assets) == 0 {
		return scene.Asset{}, false, errors.New(errors.ErrCodeNotFound, "bundle has no templates")
	}
	final, err := tea.NewProgram(NewTemplateListModel(assets)).Run()
	if err != nil {
		return scene.Asset{}, false, fmt.Errorf("template picker: %w", err)
	}
	m := final.(TemplateListModel)
	if m.Selected == nil {
		return scene.Asset{}, false, nil
	}
	return *m.Selected, true, nil
}

// renderAsset renders an asset as a tree, titled by its kind.
func renderAsset(a scene.Asset, depth int) string {
	title := styleComponent.Render("component " + a.Name)
	if a.Kind == scene.AssetScreen {
		title = styleScreen.Render("screen " + a.Name)
	}
	t := tree.Root(title).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, child := range a.Root.Children {
		t.Child(sceneTree(child, 1, depth))
	}
	return t.String()
}

// sceneTree builds the tree of n. Children below maxDepth are summarized.
func sceneTree(n *scene.Node, level, maxDepth int) any {
	label := nodeLabel(n)
	if len(n.Children) == 0 {
		return label
	}
	t := tree.Root(label)
	if maxDepth > 0 && level >= maxDepth {
		return t.Child(StyleDim.Render(fmt.Sprintf("… %d more", scene.Count(n)-1)))
	}
	for _, child := range n.Children {
		t.Child(sceneTree(child, level+1, maxDepth))
	}
	return t
}

// nodeLabel is the node name followed by tags for its notable parts.
func nodeLabel(n *scene.Node) string {
	var tags []string
	switch {
	case n.Orphan != nil:
		return StyleOrphan.Render(n.Name)
	case n.InstanceOf != "":
		tags = append(tags, styleInstance.Render("instance of "+n.InstanceOf))
	}
	if n.Text != nil {
		tags = append(tags, fmt.Sprintf("text %q", truncate(n.Text.Characters, 24)))
	}
	if n.Image != nil {
		tags = append(tags, "image:"+string(n.Image.Source))
	}
	if n.Layout != nil {
		tags = append(tags, "layout:"+string(n.Layout.Axis))
	}
	if n.Scroll != nil {
		tags = append(tags, "scroll")
	}
	if n.Mask {
		tags = append(tags, "mask")
	}
	if n.Transition != nil {
		tags = append(tags, iconArrow+" "+n.Transition.TargetID)
	}
	if !n.Active {
		tags = append(tags, "hidden")
	}
	if len(tags) == 0 {
		return n.Name
	}
	return n.Name + " " + StyleDim.Render("["+strings.Join(tags, ", ")+"]")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
