package cmd

import "testing"

func TestTag(t *testing.T) {
	t.Run("add and list", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("tag", "add", "0", "wip")

		out := env.run("tag", "list", "0")
		env.contains(out, "wip")

		// tags survive into the events listing
		out = env.run("events", "--tag", "wip")
		env.contains(out, "click")
	})

	t.Run("remove", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("tag", "rm", "1", "bug")

		out := env.run("tag", "list", "1")
		env.notContains(out, "bug")
	})

	t.Run("unknown index fails", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.runErr("tag", "add", "99", "wip")
		if err == nil {
			t.Error("tag add 99 = nil, want error")
		}
	})
}

func TestNote(t *testing.T) {
	t.Run("set show clear", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("note", "set", "2", "check the flicker here")

		out := env.run("note", "show", "2")
		env.contains(out, "check the flicker here")

		// noted events are flagged in the listing
		out = env.run("events")
		env.contains(out, "[note]")

		env.run("note", "clear", "2")
		out = env.run("events")
		env.notContains(out, "[note]")
	})
}

func TestUndo_EmptyStack(t *testing.T) {
	// each CLI invocation starts a fresh process, so the in-memory undo
	// stack is empty even after a persisted crop
	env := newTestEnv(t)

	env.run("crop", "--force", "1.5", "3")

	out := env.run("undo")
	env.contains(out, "nothing to undo")
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("status")
	env.contains(out, "in-review")

	env.run("status", "approved")
	out = env.run("status")
	env.contains(out, "approved")
}
