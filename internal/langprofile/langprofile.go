// Package langprofile is the pure-data language tag -> launch policy table
// used to pick a container image, entry filename and argv for a job.
package langprofile

// Profile is the (image, filename, argv) triple that tells the sandbox how
// to run code for a given language tag.
type Profile struct {
	Image          string
	SourceFilename string
	ArgvTemplate   []string
}

// generic is returned for unrecognized tags: accepted but almost certainly
// fails at runtime.
var generic = Profile{
	Image:          "ubuntu:22.04",
	SourceFilename: "main.txt",
	ArgvTemplate:   []string{"sh", "-c"},
}

var table = map[string]Profile{
	"python": {
		Image:          "python:3.11-slim",
		SourceFilename: "main.py",
		ArgvTemplate:   []string{"python", "main.py"},
	},
	"javascript": {
		Image:          "node:20-slim",
		SourceFilename: "main.js",
		ArgvTemplate:   []string{"node", "main.js"},
	},
	"typescript": {
		Image:          "node:20-slim",
		SourceFilename: "main.ts",
		ArgvTemplate:   []string{"npx", "tsx", "main.ts"},
	},
	"go": {
		Image:          "golang:1.21-alpine",
		SourceFilename: "main.go",
		ArgvTemplate:   []string{"go", "run", "main.go"},
	},
	"rust": {
		Image:          "rust:1.75-slim",
		SourceFilename: "main.rs",
		ArgvTemplate:   []string{"cargo", "run"},
	},
	"java": {
		Image:          "openjdk:17-slim",
		SourceFilename: "Main.java",
		ArgvTemplate:   []string{"java", "Main.java"},
	},
	"ruby": {
		Image:          "ruby:3.2-slim",
		SourceFilename: "main.rb",
		ArgvTemplate:   []string{"ruby", "main.rb"},
	},
	"php": {
		Image:          "php:8.2-cli",
		SourceFilename: "main.php",
		ArgvTemplate:   []string{"php", "main.php"},
	},
	"shell": {
		Image:          "ubuntu:22.04",
		SourceFilename: "main.sh",
		ArgvTemplate:   []string{"sh", "main.sh"},
	},
}

// Lookup returns the profile for language, falling back to the generic
// profile for unknown tags. The bool reports whether the tag was recognized.
func Lookup(language string) (Profile, bool) {
	p, ok := table[language]
	if !ok {
		return generic, false
	}
	return p, true
}

// Argv builds the full launch command: the profile's template followed by
// the request's user-supplied args.
func Argv(p Profile, args []string) []string {
	cmd := make([]string, 0, len(p.ArgvTemplate)+len(args))
	cmd = append(cmd, p.ArgvTemplate...)
	cmd = append(cmd, args...)
	return cmd
}

// Recognized lists every baseline language tag with a dedicated profile.
func Recognized() []string {
	return []string{
		"python", "javascript", "typescript", "go", "rust",
		"java", "ruby", "php", "shell",
	}
}
