package main

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
)

func TestParseCategories(t *testing.T) {
	got, err := parseCategories([]string{"jobs", "gig", "job", "Volunteering-Roles"})
	if err != nil {
		t.Fatalf("parseCategories: %v", err)
	}
	want := []category.Category{category.Job, category.Gig, category.Volunteering}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseCategories([]string{"courses"}); !errors.Is(err, domain.ErrUnsupportedCategory) {
		t.Errorf("err = %v", err)
	}
	if got, _ := parseCategories(nil); len(got) != 0 {
		t.Errorf("empty args = %v", got)
	}
}

func TestListParams(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(searchCmd.Flags())
	if err := cmd.Flags().Parse([]string{"--page", "3", "--filters", `{"remote":true}`, "--facets"}); err != nil {
		t.Fatal(err)
	}
	p := listParams(cmd, "go")
	if p.Query != "go" || p.Page != "3" || p.PageSize != "20" || !p.IncludeFacets {
		t.Errorf("params = %+v", p)
	}
	if p.Filters != `{"remote":true}` || p.Viewport != nil {
		t.Errorf("filters = %v viewport = %v", p.Filters, p.Viewport)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "discoveryctl dev") {
		t.Errorf("output = %q", out.String())
	}
}
