// Package document executes the query blocks of an org document and splices each
// block's rendered result back into the text under a #+RESULTS: line.
package document

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sqlblock/cli/internal/dsn"
	apperrors "sqlblock/cli/internal/errors"
	"sqlblock/cli/internal/headerargs"
	"sqlblock/cli/internal/options"
	"sqlblock/cli/internal/result"
	"sqlblock/cli/internal/sqlexec"
)

// Executor runs one block.
type Executor interface {
	Execute(ctx context.Context, b sqlexec.Block) (result.Result, error)
}

// RenderFunc formats a result as document text ending in a newline, or "" for nothing.
type RenderFunc func(result.Result) string

// BlockReport describes what happened to one query block.
type BlockReport struct {
	Line     int
	Language string
	Skipped  bool
	Silent   bool
}

var (
	reBegin    = regexp.MustCompile(`(?i)^(\s*)#\+begin_src\s+(\S+)\s*(.*)$`)
	reEnd      = regexp.MustCompile(`(?i)^\s*#\+end_src\s*$`)
	reHeader   = regexp.MustCompile(`(?i)^\s*#\+header:\s*(.*)$`)
	reName     = regexp.MustCompile(`(?i)^\s*#\+name:`)
	reProperty = regexp.MustCompile(`(?i)^\s*#\+property:\s*header-args(?::(\S+))?\s+(.*)$`)
	reResults  = regexp.MustCompile(`(?i)^\s*#\+results(\[.*\])?:`)
	reExample  = regexp.MustCompile(`(?i)^\s*#\+begin_example`)
	reExEnd    = regexp.MustCompile(`(?i)^\s*#\+end_example\s*$`)
)

// Process executes every query block of src in order and returns the updated document.
// Blocks in other languages are left untouched. The first failing block aborts processing.
// CRLF documents are processed line by line without the carriage returns and written back with CRLF.
func Process(ctx context.Context, src string, exec Executor, render RenderFunc) (string, []BlockReport, error) {
	crlf := strings.Contains(src, "\r\n")
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	props, err := properties(lines)
	if err != nil {
		return "", nil, err
	}

	var (
		out     []string
		reports []BlockReport
		headers []headerLine
	)
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := reHeader.FindStringSubmatch(line); m != nil {
			headers = append(headers, headerLine{line: i + 1, args: m[1]})
			out = append(out, line)
			continue
		}
		if reName.MatchString(line) {
			out = append(out, line)
			continue
		}

		m := reBegin.FindStringSubmatch(line)
		if m == nil {
			headers = nil
			out = append(out, line)
			continue
		}
		indent, lang, args := m[1], m[2], m[3]
		start := i + 1

		end := i + 1
		for end < len(lines) && !reEnd.MatchString(lines[end]) {
			end++
		}
		if end == len(lines) {
			return "", nil, blockError(start, apperrors.New(apperrors.InvalidArguments, "#+begin_src without #+end_src"))
		}
		out = append(out, lines[i:end+1]...)
		body := unescape(lines[i+1 : end])
		blockHeaders := headers
		headers = nil
		i = end

		if !dsn.IsQueryLanguage(lang) {
			continue
		}

		block, err := buildBlock(lang, body, props, blockHeaders, args)
		if err != nil {
			return "", nil, blockError(start, err)
		}
		report := BlockReport{Line: start, Language: lang}

		if eval, _ := block.Params.String("eval"); eval == "no" || eval == "never" {
			report.Skipped = true
			reports = append(reports, report)
			continue
		}

		res, err := exec.Execute(ctx, block)
		if err != nil {
			return "", nil, blockError(start, err)
		}

		cfg := options.Resolver{}.Resolve(block.Params)
		if cfg.HasResult("silent", "none") {
			report.Silent = true
			reports = append(reports, report)
			continue
		}
		reports = append(reports, report)

		// Drop an existing result section: blank lines, the #+RESULTS: line and its body.
		next := i + 1
		for next < len(lines) && strings.TrimSpace(lines[next]) == "" {
			next++
		}
		if next < len(lines) && reResults.MatchString(lines[next]) {
			i = skipResultBody(lines, next+1) - 1
		}

		out = append(out, "", indent+"#+RESULTS:")
		for _, l := range strings.Split(strings.TrimSuffix(render(res), "\n"), "\n") {
			if l != "" {
				out = append(out, indent+l)
			}
		}
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}
	return strings.Join(out, eol), reports, nil
}

type headerLine struct {
	line int
	args string
}

type property struct {
	bag  options.Bag
	vars map[string]string
}

// properties collects document-wide header-args, keyed by language ("" for all languages).
func properties(lines []string) (map[string]property, error) {
	props := map[string]property{}
	for i, line := range lines {
		m := reProperty.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		bag, vars, err := headerargs.Parse(m[2])
		if err != nil {
			return nil, fmt.Errorf("property at line %d: %w", i+1, err)
		}
		lang := strings.ToLower(m[1])
		p := props[lang]
		p.bag = headerargs.Merge(p.bag, bag)
		p.vars = mergeVars(p.vars, vars)
		props[lang] = p
	}
	return props, nil
}

func buildBlock(lang string, body []string, props map[string]property, headers []headerLine, args string) (sqlexec.Block, error) {
	global, forLang := props[""], props[strings.ToLower(lang)]
	bag := headerargs.Merge(global.bag, forLang.bag)
	vars := mergeVars(global.vars, forLang.vars)

	for _, h := range headers {
		b, v, err := headerargs.Parse(h.args)
		if err != nil {
			return sqlexec.Block{}, fmt.Errorf("#+header at line %d: %w", h.line, err)
		}
		bag = headerargs.Merge(bag, b)
		vars = mergeVars(vars, v)
	}
	b, v, err := headerargs.Parse(args)
	if err != nil {
		return sqlexec.Block{}, err
	}

	return sqlexec.Block{
		Language: lang,
		Body:     strings.Join(body, "\n"),
		Params:   headerargs.Merge(bag, b),
		Vars:     mergeVars(vars, v),
	}, nil
}

func mergeVars(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// skipResultBody returns the index of the first line after a result body starting at i.
// A body is a run of table or fixed-width lines, or an example block.
func skipResultBody(lines []string, i int) int {
	if i < len(lines) && reExample.MatchString(lines[i]) {
		for j := i + 1; j < len(lines); j++ {
			if reExEnd.MatchString(lines[j]) {
				return j + 1
			}
		}
		return len(lines)
	}
	for i < len(lines) {
		t := strings.TrimLeft(lines[i], " \t")
		if !strings.HasPrefix(t, "|") && t != ":" && !strings.HasPrefix(t, ": ") {
			break
		}
		i++
	}
	return i
}

// unescape removes the common indentation of a block body and the comma org uses
// to protect lines starting with "*" or "#+".
func unescape(body []string) []string {
	indent := -1
	for _, l := range body {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	out := make([]string, len(body))
	for i, l := range body {
		if indent > 0 && len(l) >= indent {
			l = l[indent:]
		}
		if strings.HasPrefix(l, ",*") || strings.HasPrefix(l, ",#+") {
			l = l[1:]
		}
		out[i] = l
	}
	return out
}

func blockError(line int, err error) error {
	return fmt.Errorf("block at line %d: %w", line, err)
}
