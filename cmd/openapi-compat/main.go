// Command openapi-compat compares two swagger documents and fails when the
// newer one drops paths, operations, or response codes the older one had.
// It guards the contract between the API and the web frontend. Both YAML and
// JSON documents are accepted.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// contract is the compatibility-relevant slice of a swagger document:
// path -> method -> set of response codes.
type contract map[string]map[string]map[string]struct{}

func main() {
	basePath := flag.String("base", "", "published swagger document (yaml or json)")
	revisionPath := flag.String("revision", "", "candidate swagger document (yaml or json)")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> -revision <path>")
		os.Exit(2)
	}

	base, err := loadContract(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base document: %v\n", err)
		os.Exit(1)
	}
	revision, err := loadContract(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision document: %v\n", err)
		os.Exit(1)
	}

	breaks := base.diff(revision)
	if len(breaks) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, b := range breaks {
			fmt.Fprintf(os.Stderr, "- %s\n", b)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func loadContract(path string) (contract, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// yaml.Unmarshal also parses JSON, so one decoder covers both formats.
	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	pathsRaw, ok := doc["paths"]
	if !ok {
		return nil, errors.New("missing top-level paths field")
	}
	pathsMap, ok := asMap(pathsRaw)
	if !ok {
		return nil, errors.New("paths is not an object")
	}

	out := contract{}
	for pathKey, pathEntry := range pathsMap {
		opsRaw, ok := asMap(pathEntry)
		if !ok {
			continue
		}

		ops := map[string]map[string]struct{}{}
		for methodKey, methodEntry := range opsRaw {
			method := strings.ToLower(strings.TrimSpace(methodKey))
			if _, supported := httpMethods[method]; !supported {
				continue
			}
			methodMap, ok := asMap(methodEntry)
			if !ok {
				continue
			}

			codes := map[string]struct{}{}
			if responsesRaw, exists := methodMap["responses"]; exists {
				if responses, ok := asMap(responsesRaw); ok {
					for code := range responses {
						if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
							codes[code] = struct{}{}
						}
					}
				}
			}
			ops[method] = codes
		}

		if len(ops) > 0 {
			out[pathKey] = ops
		}
	}

	return out, nil
}

// asMap normalizes the two map shapes the YAML decoder can produce.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// diff lists everything present in the base contract but missing from the
// revision. Additions are always compatible and never reported.
func (c contract) diff(revision contract) []string {
	var breaks []string

	for path, baseOps := range c {
		revOps, ok := revision[path]
		if !ok {
			breaks = append(breaks, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseCodes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				breaks = append(breaks, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range baseCodes {
				if _, ok := revCodes[code]; !ok {
					breaks = append(breaks, fmt.Sprintf(
						"removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code),
					))
				}
			}
		}
	}

	sort.Strings(breaks)
	return breaks
}
