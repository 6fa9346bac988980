package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/server"
)

// toolDoc is one documented tool. Write tools are only registered with --yolo.
type toolDoc struct {
	mcp.Tool
	Write bool
}

type toolGroup struct {
	Title string
	Tools []toolDoc
}

// toolGroups orders the reference by tool name prefix. Unmatched tools go last.
var toolGroups = []struct{ prefix, title string }{
	{"calendar_", "Calendar Tools"},
	{"event_", "Event Tools"},
}

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate the MCP tool reference",
		Long: `Generate a markdown reference of every MCP tool the server can register.
The reference is built from the registered tool definitions, so it always
matches the server. Tools that change data are marked as requiring --yolo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := collectToolDocs()
			if err != nil {
				return err
			}
			markdown := renderToolReference(groupToolDocs(docs))

			if outputFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Tool reference written to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// collectToolDocs registers the tools twice, read-only and with writes
// allowed, and marks the tools only the second run registered.
// No API request is made.
func collectToolDocs() ([]toolDoc, error) {
	readOnly, err := registeredTools(true)
	if err != nil {
		return nil, err
	}
	all, err := registeredTools(false)
	if err != nil {
		return nil, err
	}

	docs := make([]toolDoc, 0, len(all))
	for name, tool := range all {
		_, safe := readOnly[name]
		docs = append(docs, toolDoc{Tool: tool, Write: !safe})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func registeredTools(readOnly bool) (map[string]mcp.Tool, error) {
	client, err := eventcal.New(eventcal.Options{APIKey: "docs"})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	sc, err := server.NewServerContext(context.Background(), client, server.WithReadOnly(readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, sc); err != nil {
		return nil, err
	}

	tools := make(map[string]mcp.Tool)
	for _, st := range mcpSrv.ListTools() {
		tools[st.Tool.Name] = st.Tool
	}
	return tools, nil
}

// groupToolDocs keeps the order of docs within each group and drops empty groups.
func groupToolDocs(docs []toolDoc) []toolGroup {
	groups := make([]toolGroup, len(toolGroups)+1)
	for i, g := range toolGroups {
		groups[i].Title = g.title
	}
	other := len(toolGroups)
	groups[other].Title = "Other Tools"

	for _, doc := range docs {
		idx := other
		for i, g := range toolGroups {
			if strings.HasPrefix(doc.Name, g.prefix) {
				idx = i
				break
			}
		}
		groups[idx].Tools = append(groups[idx].Tools, doc)
	}

	nonEmpty := groups[:0]
	for _, g := range groups {
		if len(g.Tools) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	return nonEmpty
}

func renderToolReference(groups []toolGroup) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools registered by `eventcal serve`. This file is generated by `eventcal generate-docs`.\n\n")
	sb.WriteString("The server starts read-only. Tools marked **write** are registered only with `--yolo`.\n\n")

	for _, g := range groups {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", g.Title, strings.ToLower(strings.ReplaceAll(g.Title, " ", "-")))
	}
	sb.WriteString("\n")

	for _, g := range groups {
		fmt.Fprintf(&sb, "## %s\n\n", g.Title)
		for _, doc := range g.Tools {
			renderTool(&sb, doc)
		}
	}
	return sb.String()
}

func renderTool(sb *strings.Builder, doc toolDoc) {
	mode := "read-only"
	if doc.Write {
		mode = "**write**"
	}
	fmt.Fprintf(sb, "### %s\n\n%s\n\n", doc.Name, mode)
	if doc.Description != "" {
		sb.WriteString(doc.Description + "\n\n")
	}

	props := doc.InputSchema.Properties
	if len(props) == 0 {
		return
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(doc.InputSchema.Required))
	for _, name := range doc.InputSchema.Required {
		required[name] = true
	}

	sb.WriteString("| Argument | Type | Required | Description |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		req := "no"
		if required[name] {
			req = "yes"
		}
		fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n", name, propertyType(prop), req, propertyDescription(prop))
	}
	sb.WriteString("\n")
}

func propertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

// propertyDescription appends the allowed values of enum properties and
// escapes table separators.
func propertyDescription(prop map[string]any) string {
	desc, _ := prop["description"].(string)

	var values []string
	switch enum := prop["enum"].(type) {
	case []string:
		values = enum
	case []any:
		for _, v := range enum {
			values = append(values, fmt.Sprint(v))
		}
	}
	if len(values) > 0 {
		allowed := "One of `" + strings.Join(values, "`, `") + "`."
		desc = strings.TrimSpace(desc + " " + allowed)
	}
	return strings.ReplaceAll(desc, "|", `\|`)
}
