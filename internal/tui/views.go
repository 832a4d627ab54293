package tui

import (
	"fmt"
	"strings"

	"github.com/cmercer/camdeck/internal/tui/styles"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("camdeck"))
	b.WriteString(styles.DimStyle.Render("  ·  Samsung phone camera companion"))
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		b.WriteString(m.viewMenu())
	case stateReview:
		b.WriteString(m.viewReview())
	case stateReviewJump, stateReviewFilter, stateReviewExport, stateIntakeTag, stateSaveDir:
		b.WriteString(m.viewInput())
	case stateIntakeConflict:
		b.WriteString(m.viewConflict())
	case stateIntakeCapture:
		b.WriteString(m.viewCapture())
	case stateIntakeChoice:
		b.WriteString(m.viewChoice())
	case stateHelp:
		b.WriteString(m.viewHelp())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	if handle, ok := m.session.Current(); ok {
		b.WriteString(styles.SuccessStyle.Render("● " + handle.Address))
	} else {
		b.WriteString(styles.DimStyle.Render("○ no wireless session"))
	}
	b.WriteString(styles.DimStyle.Render("   save → " + m.cfg.Save.Dir))
	b.WriteString("\n\n")

	for i, label := range menuLabels {
		if i == m.menuCursor {
			b.WriteString(styles.HighlightStyle.Render(label))
		} else {
			b.WriteString("  " + styles.SubtitleStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n" + styles.DimStyle.Render("Recent intakes") + "\n")
		for _, row := range m.recent {
			b.WriteString(styles.DimStyle.Render(
				fmt.Sprintf("  %s  %-16s %d file(s)", row.When, row.Tag, row.Pulled)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewReview() string {
	if m.review == nil || m.review.Ended() {
		return styles.DimStyle.Render("No photos.")
	}

	var b strings.Builder

	cur, _ := m.review.Current()
	header := fmt.Sprintf("%d/%d  %s", m.review.Cursor()+1, m.review.Len(), cur.RemoteName)
	b.WriteString(styles.AccentStyle.Render(header))
	if m.review.SelectedCount() > 0 {
		b.WriteString(styles.SubtitleStyle.Render(
			fmt.Sprintf("   %d selected", m.review.SelectedCount())))
	}
	b.WriteString("\n")
	if m.metaLine != "" {
		b.WriteString(styles.DimStyle.Render(m.metaLine))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Windowed filename list around the cursor
	const window = 9
	start := m.review.Cursor() - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > m.review.Len() {
		end = m.review.Len()
		if start = end - window; start < 0 {
			start = 0
		}
	}
	for i := start; i < end; i++ {
		asset, _ := m.review.Asset(i)
		mark := styles.UnselectedChar
		if m.review.IsSelected(i) {
			mark = styles.SelectedMark
		}
		line := fmt.Sprintf("%s %3d  %s", mark, i+1, asset.RemoteName)
		if i == m.review.Cursor() {
			b.WriteString(styles.HighlightStyle.Render(line))
		} else {
			b.WriteString("  " + styles.SubtitleStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(
		"←/→ navigate · space select · d delete local · D delete from phone · e/E export · g go to # · / find · esc back"))
	return b.String()
}

func (m Model) viewInput() string {
	var title string
	switch m.state {
	case stateReviewJump:
		title = "Go to photo"
	case stateReviewFilter:
		title = "Find photo"
	case stateReviewExport:
		title = "Export"
	case stateIntakeTag:
		title = "Process phone"
	case stateSaveDir:
		title = "Set save folder"
	}

	return styles.PanelStyle.Render(
		styles.TitleStyle.Render(title) + "\n\n" +
			m.input.View() + "\n\n" +
			styles.DimStyle.Render("enter confirm · esc cancel"))
}

func (m Model) viewConflict() string {
	return styles.PanelStyle.Render(
		styles.TitleStyle.Render("Asset tag exists") + "\n\n" +
			styles.SubtitleStyle.Render("The folder for tag '"+m.workflow.Tag()+"' already has files.") + "\n\n" +
			styles.SubtitleStyle.Render("  a  add new photos to this folder") + "\n" +
			styles.SubtitleStyle.Render("  t  enter a different tag") + "\n" +
			styles.SubtitleStyle.Render("  esc  stop processing"))
}

func (m Model) viewCapture() string {
	return styles.PanelStyle.Render(
		styles.TitleStyle.Render("Take photos now") + "\n\n" +
			styles.SubtitleStyle.Render("Tag: "+m.workflow.Tag()) + "\n" +
			styles.SubtitleStyle.Render("Open the camera on the phone and take your photos.") + "\n\n" +
			styles.DimStyle.Render("enter when done · esc cancel"))
}

func (m Model) viewChoice() string {
	return styles.PanelStyle.Render(
		styles.TitleStyle.Render("Next step") + "\n\n" +
			styles.SubtitleStyle.Render("  f  finish: save photos"+finishSuffix(m)) + "\n" +
			styles.SubtitleStyle.Render("  v  view photos on the phone") + "\n" +
			styles.SubtitleStyle.Render("  m  take more photos") + "\n\n" +
			styles.DimStyle.Render("esc cancel"))
}

func finishSuffix(m Model) string {
	if m.cfg.Cleanup.DeleteAfterSave {
		return " and clear the phone"
	}
	return ""
}

func (m Model) viewHelp() string {
	return styles.PanelStyle.Render(
		styles.TitleStyle.Render("Help") + "\n\n" +
			styles.SubtitleStyle.Render("Connect wirelessly needs one prior USB connection with\nUSB debugging enabled, on the same Wi-Fi network.") + "\n\n" +
			styles.SubtitleStyle.Render("Process phone: tag a batch, capture, review, then save\neverything into the tag's folder.") + "\n\n" +
			styles.DimStyle.Render("any key to return"))
}

func (m Model) viewFooter() string {
	if m.busy {
		return m.spin.View() + styles.SubtitleStyle.Render(" "+m.status)
	}
	if m.errText != "" {
		return styles.ErrorStyle.Render(m.errText)
	}
	if m.status != "" {
		return styles.SuccessStyle.Render(m.status)
	}
	return styles.DimStyle.Render("? help · q quit")
}
