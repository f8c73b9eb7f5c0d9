// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the diffly viewer.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. ApplyThemeMode can force either palette.

# Color System (colors.go)

  - Purple - Primary accent and the selected card
  - Cyan - Focused inputs, info notices, hunk headers
  - Emerald - Added files and lines
  - Rose - Removed files and lines, errors
  - Amber - Modified files, warnings

Diff lines use a foreground/background pair per change kind, plus a
stronger "emphasis" background for intraline changes.

# Theme (theme.go)

Theme bundles the lipgloss styles used by the renderer and the app:

	theme := styles.NewTheme()
	label := theme.LabelAdded.Render("[ADDED]")
*/
package styles
