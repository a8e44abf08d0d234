package main

import (
	"fmt"
	"sort"
)

// Command is a devtool subcommand
type Command interface {
	Name() string
	Description() string
	Run(args []string) error
}

// Registry holds the registered subcommands
type Registry struct {
	commands []Command
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(cmd Command) {
	r.commands = append(r.commands, cmd)
}

// Get finds a command by name
func (r *Registry) Get(name string) (Command, bool) {
	for _, cmd := range r.commands {
		if cmd.Name() == name {
			return cmd, true
		}
	}
	return nil, false
}

// PrintHelp prints usage with commands in alphabetical order
func (r *Registry) PrintHelp() {
	sorted := append([]Command(nil), r.commands...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})

	fmt.Println("Usage: devtool <command> [args...]")
	fmt.Println("Commands:")
	for _, cmd := range sorted {
		fmt.Printf("  %-12s %s\n", cmd.Name(), cmd.Description())
	}
}
