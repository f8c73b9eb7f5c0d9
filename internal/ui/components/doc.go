// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the diffly viewer.

Components are plain structs styled with a *styles.Theme. They hold no
comparison state; the app model owns that and asks components to render.

# Display Components

DiffRenderer (diff_viewer.go) - Patch generation plus side-by-side or unified markup.
Highlighter (highlight.go) - Chroma syntax highlighting chosen by file extension.
SummaryPanel (summary.go) - The service summary rendered as markdown with glamour.
StatusBar (statusbar.go) - State text and key hints.

# Feedback

Spinner (spinner.go) - Shown while a comparison is running.
ToastManager (toast.go) - Auto-dismissing notices for errors and exports.

# Usage

	r := components.NewDiffRenderer(components.DefaultRendererOptions())
	out, err := r.Render(entry)
	if err != nil {
	    return err
	}
	fmt.Println(r.Header(entry, false, true))
	fmt.Println(out.Markup)
*/
package components
