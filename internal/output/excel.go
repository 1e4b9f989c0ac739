package output

import (
	"fmt"
	"strings"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/commitscope/commitscope-go/internal/errors"
	"github.com/xuri/excelize/v2"
)

// WriteExcel exports the report as a workbook: one sheet per repository,
// one stacked section per window.
func WriteExcel(report analysis.AnalysisReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for _, repo := range report.Repositories {
		sheet := uniqueSheetName(sheetName(repo.Repository), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.InternalErrorf("create sheet %s: %v", sheet, err)
		}

		row := 1
		if repo.FetchError != "" {
			setRow(f, sheet, row, "Fetch failed", repo.FetchError)
			continue
		}

		for _, wr := range repo.Windows {
			row = writeWindowSection(f, sheet, row, repo, wr)
			row++ // blank spacer row between windows
		}
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return errors.FileSystemErrorf(err, "write workbook to %s", path)
	}
	return nil
}

func writeWindowSection(f *excelize.File, sheet string, row int, repo analysis.RepoResult, wr analysis.WindowResult) int {
	setRow(f, sheet, row, windowLabel(wr.Window))
	row++

	setRow(f, sheet, row, "Unique Commits", wr.TotalUnique)
	row++
	setRow(f, sheet, row, "Raw Records", wr.TotalRaw)
	row++
	setRow(f, sheet, row, "Merge Commits Excluded", wr.MergeExcluded)
	row++
	setRow(f, sheet, row, "Branches Considered", len(repo.Branches))
	row++

	setRow(f, sheet, row, "Rank", "User", "Unique Commits", "Branches", "First Commit", "Last Commit")
	row++
	for i, u := range wr.Stats.Users {
		setRow(f, sheet, row, i+1, u.Author, u.UniqueCommits, len(u.Branches),
			formatDate(u.FirstCommit), formatDate(u.LastCommit))
		row++
	}

	return row
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

// sheetName sanitizes a repository identifier into a legal sheet name:
// 31 chars max, no []:*?/\ characters.
func sheetName(repository string) string {
	name := repository
	for _, c := range []string{"[", "]", ":", "*", "?", "/", "\\"} {
		name = strings.ReplaceAll(name, c, "-")
	}
	if len(name) > 31 {
		// Keep the tail; the repo name is more distinctive than the owner.
		name = name[len(name)-31:]
	}
	if name == "" {
		name = "repo"
	}
	return name
}

// uniqueSheetName disambiguates sanitized names that collide, still within
// the 31-char limit. Marks the returned name as taken.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("-%d", n)
		base := name
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}
