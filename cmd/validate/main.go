package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
)

func main() {
	var schemaPath string
	flag.StringVar(&schemaPath, "schema", "", "write the cartridge JSON schema to this path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-schema out.json] <cartridge file>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if schemaPath != "" {
		if err := writeSchema(schemaPath, buildSchema()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schema written to %s\n", schemaPath)
	}

	if flag.NArg() == 0 {
		if schemaPath == "" {
			flag.Usage()
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range flag.Args() {
		if err := validateFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", path)
	}
	if failed {
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(cartridge.Game))
	schema.Title = "Noir Engine Cartridge"
	schema.Description = "Validates authored cartridges in data/cartridges"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}

// validateFile decodes and builds a cartridge, then applies the naming
// rules that Build leaves to authors.
func validateFile(path string) error {
	fmt.Printf("Validating %s...\n", path)

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if !isValidCartridgeFilename(name) {
		return fmt.Errorf("cartridge filename '%s' must be lowercase snake_case (e.g., chapter_one.yaml)", base)
	}

	g, err := cartridge.LoadFile(path)
	if err != nil {
		var berr *cartridge.BuildError
		if errors.As(err, &berr) {
			return fmt.Errorf("%s:\n  - %s", path, strings.Join(berr.Problems, "\n  - "))
		}
		return err
	}

	if problems := lintIDs(g); len(problems) > 0 {
		return fmt.Errorf("validation errors in %s:\n  - %s", path, strings.Join(problems, "\n  - "))
	}
	return nil
}

func lintIDs(g *cartridge.Game) []string {
	var problems []string
	check := func(field, id string) {
		if id != "" && !isValidID(id) {
			problems = append(problems, fmt.Sprintf("%s '%s' should be lowercase snake_case", field, id))
		}
	}
	check("cartridge id", g.ID)
	for _, id := range g.EntityIDs() {
		if strings.HasSuffix(id, cartridge.ZoneStorageSuffix) {
			continue
		}
		check("entity id", id)
	}
	for id := range g.Locations {
		check("location id", id)
	}
	for _, ch := range g.Chapters {
		check("chapter id", ch.ID)
		for _, f := range ch.CompletionRequirements {
			check("completion flag", f)
		}
	}
	return problems
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidCartridgeFilename(name string) bool {
	// Allow 'x.' prefix for experimental cartridges
	name = strings.TrimPrefix(name, "x.")
	return validIDRegex.MatchString(name)
}
