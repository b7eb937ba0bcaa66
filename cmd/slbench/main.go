// Command slbench benchmarks structured-light scanning algorithms: it runs
// every configured algorithm through the experiment pipeline against one
// infrastructure, compares each against the reference on speed, resolution
// and accuracy, and writes reports plus a sqlite record of the run.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/slbench/internal/config"
	"github.com/banshee-data/slbench/internal/graycode"
	"github.com/banshee-data/slbench/internal/report"
	"github.com/banshee-data/slbench/internal/rig"
	"github.com/banshee-data/slbench/internal/scene"
	"github.com/banshee-data/slbench/internal/slbench"
	"github.com/banshee-data/slbench/internal/store"
)

var configPath = flag.String("config", "slbench.json", "Benchmark config file")

func buildScene(cfg config.Config) *scene.Scene {
	s := &scene.Scene{}
	for _, p := range cfg.Scene {
		switch p.Type {
		case "plane":
			s.Primitives = append(s.Primitives, scene.Plane{
				Point:  scene.Vec3{X: p.Point[0], Y: p.Point[1], Z: p.Point[2]},
				Normal: scene.Vec3{X: p.Normal[0], Y: p.Normal[1], Z: p.Normal[2]},
			})
		case "sphere":
			s.Primitives = append(s.Primitives, scene.Sphere{
				Center: scene.Vec3{X: p.Center[0], Y: p.Center[1], Z: p.Center[2]},
				Radius: p.Radius,
			})
		}
	}
	return s
}

// buildInfrastructure wires the configured capture side. The returned
// virtual infrastructure is non-nil only for the virtual type, where the
// scene also provides the ground-truth reference.
func buildInfrastructure(cfg config.Config) (slbench.Infrastructure, *scene.VirtualInfrastructure, error) {
	ic := cfg.Infrastructure
	switch ic.Type {
	case config.InfraVirtual:
		v := scene.NewVirtualInfrastructure(ic.Setup, buildScene(cfg))
		return v, v, nil
	case config.InfraReplay:
		return scene.NewReplayInfrastructure(ic.Setup, ic.ReplayDir), nil, nil
	case config.InfraExec:
		return scene.NewExecInfrastructure(ic.Setup, ic.Command, ic.Args, ic.CalibrationDir), nil, nil
	case config.InfraSerial:
		ctrl, err := rig.OpenController(ic.SerialPort, ic.BaudRate)
		if err != nil {
			return nil, nil, err
		}
		return rig.NewInfrastructure(ic.Setup, ctrl, ic.CalibrationDir), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown infrastructure type %q", ic.Type)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	session, err := slbench.NewSession(*cfg.SessionDir)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	log.Printf("session directory: %s", session.Path)

	infra, virtual, err := buildInfrastructure(cfg)
	if err != nil {
		log.Fatalf("infrastructure: %v", err)
	}
	if closer, ok := infra.(io.Closer); ok {
		defer closer.Close()
	}

	opts := []slbench.ExperimentOption{
		slbench.WithSession(session),
		slbench.WithDepth(),
		slbench.WithTiming(),
	}

	// The virtual scene supplies a geometric ground-truth reference; other
	// infrastructures benchmark the first configured algorithm as the
	// reference.
	var experiments []*slbench.Experiment
	if virtual != nil {
		ref, err := slbench.NewExperiment(virtual, scene.NewReferenceImplementation(virtual), opts...)
		if err != nil {
			log.Fatalf("reference experiment: %v", err)
		}
		experiments = append(experiments, ref)
	}
	for i, ic := range cfg.Implementations {
		impl, err := graycode.New(ic.PatternWidth)
		if err != nil {
			log.Fatalf("implementation %d: %v", i, err)
		}
		e, err := slbench.NewExperiment(infra, impl, opts...)
		if err != nil {
			log.Fatalf("experiment %s: %v", impl.Identifier(), err)
		}
		experiments = append(experiments, e)
	}
	if len(experiments) < 2 {
		log.Fatalf("need a reference and at least one candidate experiment, have %d", len(experiments))
	}

	runID := uuid.NewString()
	startedAt := time.Now()

	var db *store.Store
	if *cfg.DBPath != "" {
		db, err = store.Open(*cfg.DBPath)
		if err != nil {
			log.Fatalf("results database: %v", err)
		}
		defer db.Close()
		if err := db.Migrate(*cfg.MigrationsDir); err != nil {
			log.Fatalf("results database: %v", err)
		}
		if err := db.RecordRun(runID, session.Path, startedAt); err != nil {
			log.Fatalf("results database: %v", err)
		}
	}

	// Experiments run strictly one after another: no two experiments may
	// share an infrastructure concurrently.
	for _, e := range experiments {
		if err := e.Run(); err != nil {
			log.Fatalf("run: %v", err)
		}
		if db != nil {
			if err := db.RecordExperiment(runID, store.SummarizeExperiment(e)); err != nil {
				log.Printf("results database: %v", err)
			}
		}
		if *cfg.ExportPointClouds && e.RunDir() != "" {
			path := filepath.Join(e.RunDir(), "point_cloud.xyz")
			if err := slbench.WriteXYZPointCloud(e, path); err != nil {
				log.Printf("point cloud export: %v", err)
			} else {
				log.Printf("point cloud: %s", path)
			}
		}
	}

	bench := slbench.NewBenchmark(experiments[0])
	metrics := []slbench.Metric{
		slbench.SpeedMetric{},
		slbench.ResolutionMetric{},
		slbench.AccuracyMetric{Dir: session.Path, BucketWidth: *cfg.AccuracyBucketWidth},
	}
	for _, m := range metrics {
		if err := bench.AddMetric(m); err != nil {
			log.Fatalf("benchmark: %v", err)
		}
	}
	for _, e := range experiments[1:] {
		if err := bench.AddExperiment(e); err != nil {
			log.Fatalf("benchmark: %v", err)
		}
	}

	results := bench.CompareExperiments()
	for _, r := range results {
		log.Printf("%s: %s vs %s = %g %s", r.Metric, r.Reference, r.Candidate, r.Value, r.Unit)
		if db != nil {
			if err := db.RecordMetricResult(runID, r); err != nil {
				log.Printf("results database: %v", err)
			}
		}
		if *cfg.RenderReports && r.ReportPath != "" {
			renderAccuracyReport(r)
		}
	}

	if db != nil {
		if err := db.CompleteRun(runID, time.Now()); err != nil {
			log.Printf("results database: %v", err)
		}
	}
	log.Printf("benchmark complete: %d comparisons in %v", len(results), time.Since(startedAt))
}

func renderAccuracyReport(r slbench.MetricResult) {
	buckets, err := report.ReadHistogramCSV(r.ReportPath)
	if err != nil {
		log.Printf("report: %v", err)
		return
	}
	title := fmt.Sprintf("%s vs %s", r.Reference, r.Candidate)
	base := strings.TrimSuffix(r.ReportPath, ".csv")

	if err := report.RenderPNG(buckets, title, base+".png"); err != nil {
		log.Printf("report: %v", err)
	}
	if err := report.RenderHTML(buckets, title, base+".html"); err != nil {
		log.Printf("report: %v", err)
	}
}
