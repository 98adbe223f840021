package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations.FindMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 5)

	ids := make([]string, 0, len(migrations))
	for _, m := range migrations {
		ids = append(ids, m.Id)
		assert.NotEmpty(t, m.Up, m.Id)
		assert.NotEmpty(t, m.Down, m.Id)
	}
	assert.Equal(t, []string{
		"0001_meetings.sql",
		"0002_oauth_credentials.sql",
		"0003_transcripts.sql",
		"0004_pipeline_jobs.sql",
		"0005_transcript_revision.sql",
	}, ids)

	var transcripts string
	for _, stmt := range migrations[2].Up {
		transcripts += stmt
	}
	assert.True(t, strings.Contains(transcripts, "speakers_updated"))
	assert.Contains(t, strings.Join(migrations[4].Up, ""), "revision")
}
