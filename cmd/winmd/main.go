package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/winmd/gen"
	"github.com/wippyai/winmd/metadata"
	"github.com/wippyai/winmd/winmd"
)

type options struct {
	prefix string
	list   bool
	refs   bool
	names  bool
}

func main() {
	var (
		files       = flag.String("winmd", "", "Metadata files (comma-separated)")
		list        = flag.Bool("list", false, "List type definitions by namespace")
		refs        = flag.Bool("refs", false, "Resolve every type reference")
		prefix      = flag.String("ns", "", "Only show namespaces with this prefix")
		names       = flag.Bool("names", false, "Print generated identifiers")
		verbose     = flag.Bool("v", false, "Debug logging on stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	paths := splitList(*files)
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: winmd -winmd <a.winmd,b.winmd> [-list] [-refs] [-ns prefix] [-names]")
		fmt.Fprintln(os.Stderr, "       winmd -winmd <a.winmd,...> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		metadata.SetLogger(logger.Named("metadata"))
		winmd.SetLogger(logger.Named("winmd"))
	}

	if *interactive {
		if err := runInteractive(paths, *prefix); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	r, err := winmd.Load(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := plainStyles()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		st = colorStyles()
	}

	opts := options{prefix: *prefix, list: *list, refs: *refs, names: *names}
	if err := run(os.Stdout, st, r, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type styles struct {
	namespace lipgloss.Style
	typeName  lipgloss.Style
	ident     lipgloss.Style
	err       lipgloss.Style
}

func plainStyles() styles {
	return styles{
		namespace: lipgloss.NewStyle(),
		typeName:  lipgloss.NewStyle(),
		ident:     lipgloss.NewStyle(),
		err:       lipgloss.NewStyle(),
	}
}

func colorStyles() styles {
	return styles{
		namespace: titleStyle,
		typeName:  typeStyle,
		ident:     identStyle,
		err:       errorStyle,
	}
}

func run(w io.Writer, st styles, r *winmd.TypeReader, opts options) error {
	var namespaces []string
	for _, ns := range r.Namespaces() {
		if strings.HasPrefix(ns, opts.prefix) {
			namespaces = append(namespaces, ns)
		}
	}

	fmt.Fprintf(w, "Files: %d\n", r.Files())
	fmt.Fprintf(w, "Namespaces: %d\n", len(namespaces))

	if opts.list {
		for _, ns := range namespaces {
			fmt.Fprintf(w, "\n%s\n", st.namespace.Render(displayNamespace(ns)))
			for _, def := range r.NamespaceTypes(ns) {
				if err := listType(w, st, def, 1, opts.names); err != nil {
					return err
				}
			}
		}
	}

	if opts.refs {
		return resolveRefs(w, st, r, opts.prefix)
	}
	return nil
}

func displayNamespace(ns string) string {
	if ns == "" {
		return "<global>"
	}
	return ns
}

func listType(w io.Writer, st styles, def winmd.TypeDef, depth int, names bool) error {
	indent := strings.Repeat("  ", depth)
	name, err := def.Name()
	if err != nil {
		return err
	}
	kind := "class"
	if iface, err := def.IsInterface(); err != nil {
		return err
	} else if iface {
		kind = "interface"
	}

	line := indent + kind + " " + st.typeName.Render(name.Name)
	if names {
		path, err := gen.TypePath(def)
		if err != nil {
			return err
		}
		line += " => " + st.ident.Render(path)
	}
	fmt.Fprintln(w, line)

	if names {
		if err := listMembers(w, st, def, indent+"    "); err != nil {
			return err
		}
	}

	for _, nested := range def.NestedTypes() {
		if err := listType(w, st, nested, depth+1, names); err != nil {
			return err
		}
	}
	return nil
}

func listMembers(w io.Writer, st styles, def winmd.TypeDef, indent string) error {
	methods, err := def.Methods()
	if err != nil {
		return err
	}
	for _, m := range methods {
		name, err := m.Name()
		if err != nil {
			return err
		}
		ident, err := gen.MethodName(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%sfn %s => %s\n", indent, name, st.ident.Render(ident))
	}

	fields, err := def.Fields()
	if err != nil {
		return err
	}
	for _, f := range fields {
		literal, err := f.IsLiteral()
		if err != nil {
			return err
		}
		if !literal {
			continue
		}
		name, err := f.Name()
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "%sconst %s => %s\n", indent, name, st.ident.Render(gen.ConstantName(name)))
	}
	return nil
}

func resolveRefs(w io.Writer, st styles, r *winmd.TypeReader, prefix string) error {
	fmt.Fprintf(w, "\nType references:\n")
	var total, failed int
	for ref := range r.TypeRefs() {
		name, err := ref.Name()
		if err != nil {
			return err
		}
		def, resolveErr := ref.Resolve()

		namespace := name.Namespace
		var target string
		if resolveErr == nil {
			path, err := def.Path()
			if err != nil {
				return err
			}
			namespace = path[0]
			target = qualified(path)
		}
		if !strings.HasPrefix(namespace, prefix) {
			continue
		}

		total++
		if resolveErr != nil {
			failed++
			fmt.Fprintf(w, "  %s %s: %s\n", ref, name, st.err.Render(resolveErr.Error()))
			continue
		}
		fmt.Fprintf(w, "  %s %s -> %s %s\n", ref, name, def, st.typeName.Render(target))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d type references failed to resolve", failed, total)
	}
	fmt.Fprintf(w, "Resolved %d type references\n", total)
	return nil
}

// qualified renders a TypeDef path as Namespace.Outer/Inner.
func qualified(path []string) string {
	name := strings.Join(path[1:], "/")
	if path[0] == "" {
		return name
	}
	return path[0] + "." + name
}
