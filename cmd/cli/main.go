package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	nodeql "github.com/nodeql/nodeql"
	"github.com/nodeql/nodeql/internal/graph"
)

const helpText = `nodeql interactive REPL

Commands:
  new <name>                         Create a new empty graph
  load <name> <file>                 Load a graph from a JSON file
  save <name> <file>                 Save a graph to a JSON file
  unload <name>                      Remove a loaded graph
  list                               List all loaded graphs
  use <name>                         Set the active graph for queries
  addnode <id> <type> <label> [k=v ...]   Add or replace a node
  rmnode <id>                        Remove a node and its incident edges
  addedge <from> <type> <to> [k=v ...]    Add or replace an edge
  rmedge <from> <type> <to>          Remove an edge
  help                               Show this help message
  exit / quit                        Exit the REPL

Any other input is treated as a MATCH query against the active graph.

Query examples:
  MATCH a:Person-[:FOLLOWS]->b:Person RETURN a, b
  MATCH a-[r:FOLLOWS*1..3]->b WHERE a.name = "alice" RETURN a, b, type(r)
  MATCH a:Person{city: "nyc"}-[:FOLLOWS]->b RETURN a.name ORDER BY a.name LIMIT 10
`

func main() {
	graphs := make(map[string]*nodeql.Graph)
	var active string

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("nodeql — embedded typed multigraph with a Cypher-subset query engine")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(graphs) == 0 {
				fmt.Println("(no graphs loaded)")
			} else {
				for name := range graphs {
					marker := " "
					if name == active {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, name)
				}
			}

		case "new":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: new <name>")
				continue
			}
			name := parts[1]
			graphs[name] = nodeql.New()
			if active == "" {
				active = name
			}
			fmt.Printf("created empty graph %q\n", name)

		case "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := graphs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no graph named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active graph set to %q\n", name)

		case "load":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			g, err := nodeql.LoadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			graphs[name] = g
			if active == "" {
				active = name
			}
			fmt.Printf("loaded %q\n", name)

		case "save":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: save <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			g, ok := graphs[name]
			if !ok {
				fmt.Fprintf(os.Stderr, "no graph named %q\n", name)
				continue
			}
			if err := g.SaveFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "error saving %q: %v\n", path, err)
				continue
			}
			fmt.Printf("saved %q to %s\n", name, path)

		case "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <name>")
				continue
			}
			name := parts[1]
			if _, ok := graphs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no graph named %q\n", name)
				continue
			}
			delete(graphs, name)
			if active == name {
				active = ""
			}
			fmt.Printf("unloaded %q\n", name)

		case "addnode":
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'use' first")
				continue
			}
			if len(parts) < 4 {
				fmt.Fprintln(os.Stderr, "usage: addnode <id> <type> <label> [k=v ...]")
				continue
			}
			n := nodeql.Node{
				ID:    nodeql.NodeID(parts[1]),
				Type:  parts[2],
				Label: parts[3],
				Props: parseProps(parts[4:]),
			}
			if err := graphs[active].UpsertNode(n); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("upserted node %q\n", n.ID)

		case "rmnode":
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'use' first")
				continue
			}
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: rmnode <id>")
				continue
			}
			if err := graphs[active].RemoveNode(nodeql.NodeID(parts[1])); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("removed node %q\n", parts[1])

		case "addedge":
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'use' first")
				continue
			}
			if len(parts) < 4 {
				fmt.Fprintln(os.Stderr, "usage: addedge <from> <type> <to> [k=v ...]")
				continue
			}
			from, typ, to := nodeql.NodeID(parts[1]), parts[2], nodeql.NodeID(parts[3])
			if err := graphs[active].AddEdge(from, typ, to, parseProps(parts[4:])); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("added edge %s-%s->%s\n", from, typ, to)

		case "rmedge":
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'use' first")
				continue
			}
			if len(parts) < 4 {
				fmt.Fprintln(os.Stderr, "usage: rmedge <from> <type> <to>")
				continue
			}
			from, typ, to := nodeql.NodeID(parts[1]), parts[2], nodeql.NodeID(parts[3])
			if err := graphs[active].RemoveEdge(from, typ, to); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("removed edge %s-%s->%s\n", from, typ, to)

		default:
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'use' first")
				continue
			}
			res, err := graphs[active].Query(context.Background(), line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "query error: %v\n", err)
				continue
			}
			fmt.Println(res.String())
		}
	}
}

// parseProps turns "key=value" tokens into a property map. A value that
// parses as an int64 or float64 is stored numerically, anything
// strconv.ParseBool accepts ("true", "false", "t", "F", ...) as a bool,
// anything else as a string.
func parseProps(tokens []string) map[string]nodeql.Value {
	if len(tokens) == 0 {
		return nil
	}
	props := make(map[string]nodeql.Value, len(tokens))
	for _, tok := range tokens {
		key, val, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		props[key] = parsePropValue(val)
	}
	return props
}

func parsePropValue(val string) graph.Value {
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return graph.Int(i)
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return graph.Float(f)
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return graph.Bool(b)
	}
	return graph.String(val)
}
