package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadStoreLinks parses an online store links file into store name → URLs.
//
// Format:
//
//	[oda]
//	https://oda.com/no/categories/20-egg/
//	[meny]
//	https://meny.no/varer/meieri-egg/egg
//
// A missing file is not an error; it returns an empty map so runs without
// online store scraping still work.
func LoadStoreLinks(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("open store links file: %w", err)
	}
	defer f.Close()

	links := make(map[string][]string)
	var current string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.ToLower(line[1 : len(line)-1])
			if _, ok := links[current]; !ok {
				links[current] = []string{}
			}
			continue
		}
		if strings.HasPrefix(line, "http") && current != "" {
			links[current] = append(links[current], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read store links file: %w", err)
	}

	return links, nil
}
