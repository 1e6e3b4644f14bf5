// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/iptecharch/leafref-server/pkg/config"
	"github.com/mitchellh/go-homedir"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

func readYANGFiles(ms *yang.Modules, sCfg *config.SchemaConfig, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("schema %s: no yang files found", sCfg.Name)
	}

	dirs, err := ExpandOSPaths(sCfg.Directories)
	if err != nil {
		return err
	}
	for _, dirpath := range dirs {
		expanded, err := yang.PathsWithModules(dirpath)
		if err != nil {
			return err
		}
		ms.AddPath(expanded...)
	}
	excludeRegexes := make([]*regexp.Regexp, 0, len(sCfg.Excludes))
	for _, e := range sCfg.Excludes {
		r, err := regexp.Compile(e)
		if err != nil {
			return err
		}
		excludeRegexes = append(excludeRegexes, r)
	}

MAIN:
	for _, name := range files {
		for _, r := range excludeRegexes {
			if r.MatchString(name) {
				log.Debugf("schema %s: excluding %s", sCfg.Name, name)
				continue MAIN
			}
		}
		err := ms.Read(name)
		if err != nil {
			return err
		}
	}
	return processModules(ms)
}

func processModules(ms *yang.Modules) error {
	if errors := ms.Process(); len(errors) > 0 {
		for _, e := range errors {
			log.Errorf("yang processing error: %v", e)
		}
		return fmt.Errorf("yang processing failed with %d errors: %w", len(errors), errors[0])
	}
	return nil
}

func walkDir(path, ext string) ([]string, error) {
	fls := make([]string, 0)
	err := filepath.WalkDir(path,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && filepath.Ext(path) == ext {
				fls = append(fls, path)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return fls, nil
}

func findYangFiles(files []string) ([]string, error) {
	expanded, err := ExpandOSPaths(files)
	if err != nil {
		return nil, err
	}
	yfiles := make([]string, 0, len(expanded))
	for _, file := range expanded {
		fi, err := os.Stat(file)
		if err != nil {
			return nil, err
		}
		switch mode := fi.Mode(); {
		case mode.IsDir():
			fls, err := walkDir(file, ".yang")
			if err != nil {
				return nil, err
			}
			yfiles = append(yfiles, fls...)
		case mode.IsRegular():
			if filepath.Ext(file) == ".yang" {
				yfiles = append(yfiles, file)
			}
		}
	}
	sort.Strings(yfiles)
	return yfiles, nil
}

// ExpandOSPaths expands ~ and makes every path absolute. The input slice is
// not modified.
func ExpandOSPaths(paths []string) ([]string, error) {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		np, err := expandOSPath(p)
		if err != nil {
			return nil, err
		}
		result = append(result, np)
	}
	return result, nil
}

func expandOSPath(p string) (string, error) {
	if p == "-" || p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "http://") ||
		strings.HasPrefix(p, "https://") {
		return "", fmt.Errorf("path %q: remote schema locations are not supported", p)
	}
	np, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("path %q: %v", p, err)
	}
	if !filepath.IsAbs(np) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("path %q: %v", p, err)
		}
		np = filepath.Join(cwd, np)
	}
	_, err = os.Stat(np)
	if err != nil {
		return "", err
	}
	return np, nil
}
