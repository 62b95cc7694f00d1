// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brandshot/internal/store"
	"brandshot/internal/upload"
)

// AssetWarnThreshold is the asset object count above which the storage
// check logs a warning.
const AssetWarnThreshold = 1000

// Deps are the services the default jobs operate on.
type Deps struct {
	Uploads   *upload.Processor
	Projects  *store.ProjectStore
	Campaigns *store.CampaignStore
	Assets    *store.AssetStore
}

// ProjectSummary is one line of the weekly report.
type ProjectSummary struct {
	Name          string    `json:"name"`
	Created       time.Time `json:"created"`
	CampaignCount int       `json:"campaignCount"`
}

// WeeklyReport is written to reports/weekly-report-<date>.json.
type WeeklyReport struct {
	Date          time.Time        `json:"date"`
	TotalProjects int              `json:"totalProjects"`
	Projects      []ProjectSummary `json:"projects"`
}

// DefaultJobs returns the maintenance jobs run by the server.
func DefaultJobs(d Deps) []Job {
	return []Job{
		{
			Name:        "cleanup-temp-files",
			Schedule:    "0 2 * * *",
			Description: "Remove staged uploads older than 24 hours",
			Run:         d.cleanupTemp,
		},
		{
			Name:        "weekly-report",
			Schedule:    "0 9 * * 1",
			Description: "Write project and campaign counts to a weekly report",
			Run: func(ctx context.Context) error {
				_, err := d.WeeklyReport(ctx, time.Now())
				return err
			},
		},
		{
			Name:        "storage-usage-check",
			Schedule:    "0 * * * *",
			Description: "Warn when generated assets exceed the object threshold",
			Run: func(ctx context.Context) error {
				_, err := d.CheckStorage(ctx)
				return err
			},
		},
	}
}

func (d Deps) cleanupTemp(ctx context.Context) error {
	n, err := d.Uploads.CleanupTemp(upload.DefaultTempMaxAge)
	if err != nil {
		return err
	}
	slog.Info("temp cleanup complete", "removed", n)
	return nil
}

// WeeklyReport counts projects and their campaigns and stores the report.
func (d Deps) WeeklyReport(ctx context.Context, now time.Time) (*WeeklyReport, error) {
	projects, err := d.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	report := &WeeklyReport{
		Date:          now.UTC(),
		TotalProjects: len(projects),
		Projects:      make([]ProjectSummary, 0, len(projects)),
	}
	for _, p := range projects {
		campaigns, err := d.Campaigns.List(ctx, p.Name)
		if err != nil {
			slog.Warn("weekly report: could not list campaigns", "project", p.Name, "error", err)
		}
		report.Projects = append(report.Projects, ProjectSummary{
			Name:          p.Name,
			Created:       p.Created,
			CampaignCount: len(campaigns),
		})
	}

	key, err := d.Assets.SaveReport(ctx, "weekly-report-"+now.UTC().Format("2006-01-02"), report)
	if err != nil {
		return nil, err
	}
	slog.Info("weekly report saved", "key", key, "projects", report.TotalProjects)
	return report, nil
}

// CheckStorage counts generated asset objects, warning above
// AssetWarnThreshold.
func (d Deps) CheckStorage(ctx context.Context) (int, error) {
	count, size, err := d.Assets.Usage(ctx, "assets/")
	if err != nil {
		return 0, fmt.Errorf("storage usage: %w", err)
	}
	if count > AssetWarnThreshold {
		slog.Warn("high asset object count", "objects", count, "bytes", size)
	}
	slog.Info("storage usage check", "objects", count, "bytes", size)
	return count, nil
}
