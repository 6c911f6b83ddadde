package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bondRecording   = "James_Bond_007_Lizenz_zum_Toeten_21.12.26_22-50_sf2_135_TVOON_DE.mpg.HD.avi"
	bondRenamed     = "James Bond 007 Lizenz zum Toeten [HD].avi"
	familyRecording = "Family_Guy_16.02.23_21-40_pro7_25_TVOON_DE.mpg.HQ.avi"
	familyRenamed   = "Family Guy 12.19 [HQ] (Fifteen Minutes of Shame).avi"
)

// runCLI executes a fresh command tree with HOME pointed at a temp dir.
func runCLI(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func recordingDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("recording"), 0644))
	}
	return dir
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()
	want := filepath.Join(home, ".otr-tidy", "config.toml")

	out, err := runCLI(t, home, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = runCLI(t, home, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration to "+want)
	assert.FileExists(t, want)

	_, err = runCLI(t, home, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = runCLI(t, home, "config", "init", "--overwrite")
	assert.NoError(t, err)
}

func TestMovieDryRun(t *testing.T) {
	dir := recordingDir(t, bondRecording, "notes.txt")

	out, err := runCLI(t, t.TempDir(), "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, bondRenamed)
	assert.FileExists(t, filepath.Join(dir, bondRecording))
	assert.NoFileExists(t, filepath.Join(dir, bondRenamed))
}

func TestMovieRenameAndUndo(t *testing.T) {
	home := t.TempDir()
	dir := recordingDir(t, bondRecording)

	_, err := runCLI(t, home, dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, bondRenamed))

	out, err := runCLI(t, home, "undo", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "otr-tidy")

	out, err = runCLI(t, home, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Reverted 1 rename from")
	assert.FileExists(t, filepath.Join(dir, bondRecording))
	assert.NoFileExists(t, filepath.Join(dir, bondRenamed))

	out, err = runCLI(t, home, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to undo.")
}

func TestNothingToRename(t *testing.T) {
	dir := recordingDir(t, "notes.txt")

	out, err := runCLI(t, t.TempDir(), filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "No recordings to rename.")
}

func TestUnknownMethod(t *testing.T) {
	dir := recordingDir(t, bondRecording)

	_, err := runCLI(t, t.TempDir(), "--method", "imdb_everything", dir)
	assert.ErrorContains(t, err, "imdb_everything")
	assert.FileExists(t, filepath.Join(dir, bondRecording))
}

func TestMethodWithoutAPIKey(t *testing.T) {
	dir := recordingDir(t, bondRecording)

	_, err := runCLI(t, t.TempDir(), "--method", "imdb_global", dir)
	assert.ErrorContains(t, err, "tmdb title lookup (providers: tmdb, omdb)")
}

var guideChannels = []string{
	"das-erste", "prosieben", "prosieben-maxx", "kabel-eins", "rtl",
	"swr-fernsehen", "hr-fernsehen", "superrtl", "orf-iii",
}

func guideServer(t *testing.T, withSeries bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/serien-nach-sendern", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`<html><body><div class="serien-nach-sendern-auswahl"><select id="select-sender">`)
		for _, c := range guideChannels {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, c, strings.ToUpper(c))
		}
		b.WriteString(`</select></div></body></html>`)
		fmt.Fprint(w, b.String())
	})
	if withSeries {
		mux.HandleFunc("/Family-Guy/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body><h1>Family Guy</h1></body></html>")
		})
		mux.HandleFunc("/Family-Guy/sendetermine/prosieben/-1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><section class="sendetermine">`+
				listingRow("16.02.2016", "21:40", "12.18", "Herpe, the Love Sore")+
				listingRow("23.02.2016", "21:40", "12.19", "Fifteen Minutes of Shame")+
				listingRow("01.03.2016", "21:40", "12.20", "Turkey Guys")+
				`</section></body></html>`)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func listingRow(date, clock, episode, title string) string {
	return fmt.Sprintf(`<div class="sendetermine-2019 sendetermine-2019-sendung" role="row">`+
		`<a href="/folgen/x" role="cell">`+
		`<span class="sendetermine-2019-wochentag">Di. %s<br>%s–23:59</span>`+
		`<span class="sendetermine-2019-staffel-und-episode-smartphone">%s</span>`+
		`<span class="sendetermine-2019-episodentitel">%s <span class="sendetermine-2019-originaltitel">(Original)</span></span>`+
		`</a></div>`, date, clock, episode, title)
}

func guideConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("guide_url = %q\nenable_logging = false\n", url+"/")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSeriesRename(t *testing.T) {
	srv := guideServer(t, true)
	dir := recordingDir(t, familyRecording)

	out, err := runCLI(t, t.TempDir(), "--config", guideConfig(t, srv.URL), "--series", "Family Guy", dir)
	require.NoError(t, err)
	assert.Contains(t, out, familyRenamed)
	assert.FileExists(t, filepath.Join(dir, familyRenamed))
	assert.NoFileExists(t, filepath.Join(dir, familyRecording))
}

func TestSeriesNotFound(t *testing.T) {
	srv := guideServer(t, false)
	dir := recordingDir(t, familyRecording)

	_, err := runCLI(t, t.TempDir(), "--config", guideConfig(t, srv.URL), "--series", "Family Guy", dir)
	assert.ErrorContains(t, err, "failed to open episode guide")
	assert.FileExists(t, filepath.Join(dir, familyRecording))
}
