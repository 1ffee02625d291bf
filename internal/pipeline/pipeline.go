package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/dataset"
	"moving-quotes-go/internal/logger"
	"moving-quotes-go/internal/processor"
	"moving-quotes-go/internal/types"
)

const transcriptExt = ".txt"

// Summary describes one extraction run.
type Summary struct {
	Records    []types.ExtractionRecord `json:"-"`
	OutputPath string                   `json:"output_path"`
	XLSXPath   string                   `json:"xlsx_path,omitempty"`
	Processed  int                      `json:"processed"`
	Skipped    int                      `json:"skipped"`
	Fallbacks  map[string]int           `json:"fallbacks"`
}

type Pipeline struct {
	dir        string
	outputFile string
	writeXLSX  bool
	sortByName bool
	orch       *processor.Orchestrator
	log        *logger.Logger
}

func New(cfg config.Config, orch *processor.Orchestrator, log *logger.Logger) *Pipeline {
	out := cfg.OutputFile
	if out == "" {
		out = config.DefaultOutputFile
	}
	return &Pipeline{
		dir:        cfg.Dir,
		outputFile: out,
		writeXLSX:  cfg.WriteXLSX,
		sortByName: cfg.SortByName,
		orch:       orch,
		log:        log.WithComponent("pipeline"),
	}
}

// Run extracts every transcript in the directory, one at a time, and writes
// the dataset once all of them are done. A failing transcript is skipped; a
// cancelled context aborts before anything is written.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	names, err := TranscriptFiles(p.dir, p.sortByName)
	if err != nil {
		return Summary{}, err
	}
	p.log.WithFields(logrus.Fields{"dir": p.dir, "transcripts": len(names)}).Info("starting extraction run")

	sum := Summary{Fallbacks: map[string]int{}}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Summary{}, fmt.Errorf("run aborted: %w", err)
		}
		log := p.log.WithField("file_name", name)

		b, err := os.ReadFile(filepath.Join(p.dir, name))
		if err != nil {
			log.WithField("error", err.Error()).Warn("cannot read transcript, skipping")
			sum.Skipped++
			continue
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			log.Warn("empty transcript, skipping")
			sum.Skipped++
			continue
		}

		res, err := p.orch.Process(ctx, name, text)
		if err != nil {
			log.WithField("error", err.Error()).Warn("extraction failed, skipping")
			sum.Skipped++
			continue
		}
		if res.FallbackUsed {
			sum.Fallbacks[res.FallbackReason]++
		}
		sum.Records = append(sum.Records, res.Record)
		sum.Processed++
	}

	sum.OutputPath = filepath.Join(p.dir, p.outputFile)
	if err := dataset.WriteCSV(sum.OutputPath, sum.Records); err != nil {
		return Summary{}, fmt.Errorf("write dataset: %w", err)
	}
	if p.writeXLSX {
		sum.XLSXPath = strings.TrimSuffix(sum.OutputPath, filepath.Ext(sum.OutputPath)) + ".xlsx"
		if err := dataset.WriteXLSX(sum.XLSXPath, sum.Records); err != nil {
			return Summary{}, fmt.Errorf("write workbook: %w", err)
		}
	}

	p.log.WithFields(logrus.Fields{
		"output":    sum.OutputPath,
		"processed": sum.Processed,
		"skipped":   sum.Skipped,
		"fallbacks": sum.Fallbacks,
	}).Info("dataset created")
	return sum, nil
}

// TranscriptFiles lists the .txt files directly inside dir. With sorted unset
// the order is whatever the directory listing returned.
func TranscriptFiles(dir string, sorted bool) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open dir: %w", err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), transcriptExt) {
			names = append(names, e.Name())
		}
	}
	if sorted {
		sort.Strings(names)
	}
	return names, nil
}
