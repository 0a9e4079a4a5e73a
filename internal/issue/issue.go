// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
)

// Id identifies an entry in the issue catalogue.
type Id int

const (
	RunnerNotFoundId Id = iota + 1
	PrefixNotFoundId
	PrefixNotWritableId
	PrefixIncompleteId
	GameNotFoundId
	InstallerSpawnFailedId
	ExecutableNotFoundId
	ConfigLoadFailedId
)

// MarkdownMsg is the remediation text for an issue, in markdown.
type MarkdownMsg string

// Issue pairs a catalogue id with a rendered remediation text. These
// are shown when a fatal error aborts a command, so every entry must
// tell the user what to do next, not just what went wrong.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the markdown remediation text for terminal display.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	runnerNotFoundIssue = &Issue{
		id: RunnerNotFoundId,
		mdMsg: `
# Runner not found!

The Proton/Wine version this game is configured for is not installed.

## Things you can try:
- List installed runners:
~~~
$ cellar runners list
~~~

- Point the game at an installed version:
~~~
$ cellar info <game>
~~~
  and edit the ` + "`runner_version`" + ` field in the game's config file.

- Steam installations of Proton under ~/.steam are discovered
  automatically; make sure the version name matches.`,
	}

	prefixNotFoundIssue = &Issue{
		id: PrefixNotFoundId,
		mdMsg: `
# Wine prefix not found!

The game's prefix directory does not exist.

## Things you can try:
- Create it first:
~~~
$ cellar prefix create <game>
~~~

- Or re-run the installer flow, which creates the prefix for you:
~~~
$ cellar add <game> --installer /path/to/setup.exe
~~~`,
	}

	prefixNotWritableIssue = &Issue{
		id: PrefixNotWritableId,
		mdMsg: `
# Wine prefix is not writable!

cellar needs write access to the prefix directory to run anything in it.

## Things you can try:
- Check ownership and permissions of the prefix directory
- If the prefix lives on removable or network storage, make sure it is
  mounted read-write`,
	}

	prefixIncompleteIssue = &Issue{
		id: PrefixIncompleteId,
		mdMsg: `
# Wine prefix looks incomplete!

The prefix is missing its drive_c/windows/system32 structure, which
means first-run initialization never finished.

## Things you can try:
- Remove and recreate the prefix:
~~~
$ cellar prefix remove <game>
$ cellar prefix create <game>
~~~`,
	}

	gameNotFoundIssue = &Issue{
		id: GameNotFoundId,
		mdMsg: `
# Game not found!

No configuration exists for that game name.

## Things you can try:
- List configured games:
~~~
$ cellar list
~~~

- Add the game first:
~~~
$ cellar add <name> --exe /path/to/game.exe
~~~`,
	}

	installerSpawnFailedIssue = &Issue{
		id: InstallerSpawnFailedId,
		mdMsg: `
# Installer could not be started!

The installer process never launched. This is a configuration problem,
not an installer failure, so it will not be retried.

## Common causes:
- The runner launcher (umu-run) is not on PATH
- The installer path is wrong or not readable
- The prefix directory is missing or unwritable

## Things you can try:
- Verify the installer path exists and is a Windows executable
- Check that umu-run is installed and on PATH`,
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# Game executable not found!

The configured executable path no longer exists under the prefix.

## Things you can try:
- Show the configured path:
~~~
$ cellar info <game>
~~~

- If the game moved, update the ` + "`executable`" + ` field in the
  game's config file, either as a host path or a C:\ style path.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

A game config file exists but could not be parsed.

## Things you can try:
- Check the TOML syntax of the file under the cellar configs directory
- Remove and re-add the game:
~~~
$ cellar remove <name>
$ cellar add <name> --exe /path/to/game.exe
~~~`,
	}

	issues = map[Id]*Issue{
		runnerNotFoundIssue.Id():       runnerNotFoundIssue,
		prefixNotFoundIssue.Id():       prefixNotFoundIssue,
		prefixNotWritableIssue.Id():    prefixNotWritableIssue,
		prefixIncompleteIssue.Id():     prefixIncompleteIssue,
		gameNotFoundIssue.Id():         gameNotFoundIssue,
		installerSpawnFailedIssue.Id(): installerSpawnFailedIssue,
		executableNotFoundIssue.Id():   executableNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns all catalogue entries, ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalogue entry for id, or nil if unknown.
func Get(id Id) *Issue {
	return issues[id]
}
