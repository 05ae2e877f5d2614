package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"papercast/internal/workflow"
)

var titleCaser = cases.Title(language.English)

// stepDisplayName turns a step's canonical name into a human heading,
// e.g. "paper-upload" becomes "Paper Upload".
func stepDisplayName(step workflow.Step) string {
	name := titleCaser.String(strings.ReplaceAll(step.String(), "-", " "))
	return strings.ReplaceAll(name, "Api", "API")
}

func parseStepArg(arg string) (workflow.Step, error) {
	step, ok := workflow.ParseStep(arg)
	if !ok {
		names := make([]string, 0, len(workflow.AllSteps()))
		for _, s := range workflow.AllSteps() {
			names = append(names, s.String())
		}
		return 0, fmt.Errorf("unknown step %q (expected one of: %s)", arg, strings.Join(names, ", "))
	}
	return step, nil
}

func parseSectionArg(arg string) (workflow.Section, error) {
	section, err := workflow.ParseSection(arg)
	if err != nil {
		names := make([]string, 0, len(workflow.AllSections()))
		for _, s := range workflow.AllSections() {
			names = append(names, strings.ToLower(s.String()))
		}
		return "", fmt.Errorf("unknown section %q (expected one of: %s)", arg, strings.Join(names, ", "))
	}
	return section, nil
}

func readTextArg(inline, file string) (string, error) {
	inline = strings.TrimSpace(inline)
	file = strings.TrimSpace(file)
	switch {
	case inline != "" && file != "":
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	case inline != "":
		return inline, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("provide --text or --file")
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
