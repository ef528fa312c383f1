package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
)

var branchHeader = []string{"city", "branch_name", "address", "latitude", "longitude"}

// LoadBranches reads a branch list CSV, keeping file order. Rows without a
// branch name are skipped.
func LoadBranches(path string) ([]model.Branch, error) {
	file, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open branch file %s: %v", common.ErrRegistryUnavailable, path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	columns, err := columnIndex(header, []string{"branch_name"})
	if err != nil {
		return nil, err
	}

	var branches []model.Branch
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		branch := model.Branch{
			City:      fieldAt(record, columns, "city"),
			Name:      fieldAt(record, columns, "branch_name"),
			Address:   fieldAt(record, columns, "address"),
			Latitude:  fieldAt(record, columns, "latitude"),
			Longitude: fieldAt(record, columns, "longitude"),
		}
		if branch.Name == "" {
			continue
		}
		branches = append(branches, branch)
	}

	return branches, nil
}

// CleanBranches removes duplicate rows sharing the same branch name and
// address, keeping the most complete row for each. Relative order of the
// surviving rows follows first appearance.
func CleanBranches(branches []model.Branch) []model.Branch {
	type slot struct {
		branch model.Branch
		order  int
	}

	best := make(map[string]slot, len(branches))
	order := 0
	for _, b := range branches {
		key := strings.ToLower(b.Name) + "\x00" + strings.ToLower(b.Address)
		existing, ok := best[key]
		if !ok {
			best[key] = slot{branch: b, order: order}
			order++
			continue
		}
		if completeness(b) > completeness(existing.branch) {
			existing.branch = b
			best[key] = existing
		}
	}

	cleaned := make([]model.Branch, len(best))
	for _, s := range best {
		cleaned[s.order] = s.branch
	}
	return cleaned
}

// completeness counts filled static fields, used to pick between duplicate
// rows of the same branch.
func completeness(b model.Branch) int {
	n := 0
	for _, field := range []string{b.City, b.Name, b.Address, b.Latitude, b.Longitude} {
		if strings.TrimSpace(field) != "" {
			n++
		}
	}
	return n
}

// WriteBranches writes a branch list CSV with the static columns only.
func WriteBranches(path string, branches []model.Branch) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create branch file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(branchHeader); err != nil {
		return fmt.Errorf("failed to write branch header: %w", err)
	}
	for _, b := range branches {
		record := []string{b.City, b.Name, b.Address, b.Latitude, b.Longitude}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write branch %s: %w", b.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush branch file: %w", err)
	}
	return nil
}
