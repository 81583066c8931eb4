package domain

import "time"

// Snapshot is one timestamped observation of a video's view count.
type Snapshot struct {
	At    time.Time `json:"at"`
	Value int64     `json:"value"`
}

// RawRow is a single record of the series source. Every field is kept as
// the raw text it was read as; parsing happens in the series builder.
type RawRow struct {
	EntityID    string `json:"video_id"`
	Label       string `json:"label"`
	PublishedAt string `json:"published_at"`
	RunAt       string `json:"run_datetime_utc"`
	Value       string `json:"view_count"`
}

// StatsRow is what a collection run records for one watched video.
type StatsRow struct {
	RunID        string    `json:"run_id"`
	RunDate      string    `json:"run_date_local"`
	RunAt        time.Time `json:"run_datetime_utc"`
	VideoID      string    `json:"video_id"`
	ChannelID    string    `json:"channel_id"`
	Title        string    `json:"title"`
	PublishedAt  string    `json:"published_at"`
	ViewCount    string    `json:"view_count"`
	LikeCount    string    `json:"like_count"`
	CommentCount string    `json:"comment_count"`
	Label        string    `json:"label"`
}

// Raw projects a collected row onto the fields the series builder reads.
func (r StatsRow) Raw() RawRow {
	run := ""
	if !r.RunAt.IsZero() {
		run = r.RunAt.UTC().Format(time.RFC3339Nano)
	}
	return RawRow{
		EntityID:    r.VideoID,
		Label:       r.Label,
		PublishedAt: r.PublishedAt,
		RunAt:       run,
		Value:       r.ViewCount,
	}
}

// WatchItem is one entry of the list of videos a collection run tracks.
type WatchItem struct {
	VideoID string
	Label   string
}
