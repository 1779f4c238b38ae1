package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/feed"
	"github.com/flicktui/flick/internal/gesture"
	"github.com/flicktui/flick/internal/guide"
	"github.com/flicktui/flick/internal/pause"
	"github.com/flicktui/flick/internal/window"
)

func (m *model) View() string {
	if m.width == 0 {
		return "Starting…"
	}
	if m.arbiter.ChromeHidden() {
		return m.viewFullBleed()
	}

	parts := []string{m.headerView()}
	if pull := m.pullIndicatorView(); pull != "" {
		parts = append(parts, pull)
	}
	parts = append(parts, m.pagerView())
	if panel := m.overlayView(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, m.footerView())

	body := joinNonEmpty(parts)
	if menu := m.sideMenuView(); menu != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, menu, " ", body)
	}
	return body
}

// viewFullBleed renders only the focused item; the focus lock suppresses all
// chrome while keeping playback paused.
func (m *model) viewFullBleed() string {
	post, ok := m.activePost()
	if !ok {
		return ""
	}
	card := m.postCard(post, true)
	return joinNonEmpty([]string{card, helperStyle.Render("enter to release")})
}

func (m *model) headerView() string {
	title := m.session.Selector().Title
	if title == "" {
		title = "flick"
	}
	head := titleStyle.Render(title)
	if _, ok := m.session.Temporary(); ok {
		head += " " + temporaryStyle.Render("(unsaved, ctrl+p to pin)")
	}

	badges := []string{}
	if m.authed {
		badges = append(badges, "@"+m.config.Client.Session().Handle)
	}
	if m.arbiter.Paused() {
		badges = append(badges, pausedStyle.Render("paused"))
	}
	if m.muted {
		badges = append(badges, helperStyle.Render("muted"))
	}
	if m.window.Count() > 0 {
		badges = append(badges, helperStyle.Render(fmt.Sprintf("%d/%d", m.window.Active()+1, m.window.Count())))
	}
	if len(badges) == 0 {
		return head
	}
	return head + "  " + strings.Join(badges, " · ")
}

// pullIndicatorView draws the pull-to-refresh affordance. While a committed
// refresh is in flight the indicator holds at its resting offset.
func (m *model) pullIndicatorView() string {
	frame := m.gestureFrame
	offset := frame.PullOffset
	if m.pullHeld || m.session.Refreshing() {
		offset = gesture.IndicatorRest
	}
	if offset <= 0 {
		return ""
	}
	if m.session.Refreshing() {
		return pullStyle.Render(fmt.Sprintf("%s refreshing…", m.spinner.View()))
	}
	ticks := int(frame.PullIntensity * 10)
	bar := strings.Repeat("●", ticks) + strings.Repeat("○", 10-ticks)
	label := "pull"
	if frame.PullIntensity >= 1 {
		label = "release to refresh"
	}
	return pullStyle.Render(fmt.Sprintf("↓ %s %s", bar, label))
}

// pagerView renders the vertical pager: materialized cards inside the render
// window, one-line placeholders outside it.
func (m *model) pagerView() string {
	if m.session.Selector().Kind == feed.KindStories {
		return m.storiesView()
	}
	items := m.session.Items()
	if len(items) == 0 {
		if m.loading() {
			return helperStyle.Render(m.spinner.View() + " loading…")
		}
		return helperStyle.Render("Nothing here yet. Press r to refresh.")
	}

	active := m.window.Active()
	first := active - window.Radius
	if first < 0 {
		first = 0
	}
	last := active + window.Radius
	if last > len(items)-1 {
		last = len(items) - 1
	}

	parts := []string{}
	if first > 0 {
		parts = append(parts, placeholderStyle.Render(fmt.Sprintf("· %d earlier", first)))
	}
	for i := first; i <= last; i++ {
		if !m.window.Materialized(i) {
			parts = append(parts, placeholderStyle.Render("· …"))
			continue
		}
		parts = append(parts, m.postCard(items[i], i == active))
	}
	if rest := len(items) - 1 - last; rest > 0 {
		suffix := ""
		if m.session.Page().FetchingMore {
			suffix = " " + m.spinner.View()
		}
		parts = append(parts, placeholderStyle.Render(fmt.Sprintf("· %d more%s", rest, suffix)))
	}
	return joinNonEmpty(parts)
}

func (m *model) postCard(post atp.Post, active bool) string {
	width := m.width - 4
	if width < minViewWidth-4 {
		width = minViewWidth - 4
	}

	name := post.Author.DisplayName
	if name == "" {
		name = post.Author.Handle
	}
	header := authorStyle.Render(name) + " " + helperStyle.Render("@"+post.Author.Handle+" · "+humanize.Time(post.CreatedAt))

	lines := []string{header}
	if post.HasVideo() {
		marker := "▶"
		if active && m.arbiter.Paused() {
			marker = "⏸"
		}
		ratio := ""
		if post.AspectWidth > 0 && post.AspectHeight > 0 {
			ratio = fmt.Sprintf(" %d:%d", post.AspectWidth, post.AspectHeight)
		}
		lines = append(lines, videoStyle.Render(fmt.Sprintf("%s video%s", marker, ratio)))
	}
	if text := strings.TrimSpace(post.Text); text != "" {
		lines = append(lines, wordwrap.String(text, width))
	}

	counts := fmt.Sprintf("♥ %d  ↺ %d  ✉ %d", post.Likes, post.Reposts, post.Replies)
	if m.ledger.Saved(post.URI) {
		if m.ledger.Pending(post.URI) {
			counts += "  ⚑ saving…"
		} else {
			counts += "  ⚑ saved"
		}
	}
	lines = append(lines, helperStyle.Render(counts))

	card := strings.Join(lines, "\n")
	if active {
		return activeCardStyle.Width(width + 2).Render(card)
	}
	return cardStyle.Width(width + 2).Render(card)
}

// storiesView renders one row per author, grouping their recent posts.
func (m *model) storiesView() string {
	groups := m.session.StoriesGroups()
	if len(groups) == 0 {
		if m.loading() {
			return helperStyle.Render(m.spinner.View() + " loading…")
		}
		return helperStyle.Render("No stories right now.")
	}
	parts := []string{}
	for i, g := range groups {
		name := g.Author.DisplayName
		if name == "" {
			name = g.Author.Handle
		}
		line := fmt.Sprintf("%s  %s", authorStyle.Render(name), helperStyle.Render(fmt.Sprintf("%d posts", len(g.Posts))))
		if i == m.window.Active() {
			line = activeCardStyle.Render(line)
		}
		parts = append(parts, line)
	}
	return joinNonEmpty(parts)
}

func (m *model) sideMenuView() string {
	open := m.arbiter.IsOpen(pause.OverlaySideMenu)
	offset := m.gestureFrame.MenuOffset
	if !open && offset >= 0 {
		return ""
	}
	// Panel width follows the drag: fully open panels get the whole width,
	// an in-flight drag gets the revealed fraction.
	cols := m.width / 4
	if !open {
		revealed := -offset / menuPanelWidth
		cols = int(float64(cols) * revealed)
		if cols < 4 {
			return ""
		}
	}
	lines := []string{
		sectionHeaderStyle.Render("Menu"),
		"1 following",
		"2 for you",
		"3 stories",
		"f feeds",
		"l library",
		"p profile",
		"d settings",
		"n activity",
	}
	return menuStyle.Width(cols).Render(strings.Join(lines, "\n"))
}

// overlayView renders the top-most overlay as a panel under the pager. Only
// the top of the stack is visible; the rest reappears as overlays close.
func (m *model) overlayView() string {
	top, ok := m.arbiter.Top()
	if !ok || top == pause.OverlaySideMenu {
		return ""
	}
	var body string
	switch top {
	case pause.OverlayIdentity:
		body = joinNonEmpty([]string{
			"Sign in with an app password.",
			m.loginID.View(),
			m.loginPW.View(),
			helperStyle.Render("enter to sign in · tab to switch · esc to close"),
		})
	case pause.OverlayManageFeeds:
		body = m.manageFeedsBody()
	case pause.OverlayLibrary:
		body = m.libraryBody()
	case pause.OverlayProfile:
		body = m.profileBody()
	case pause.OverlaySettings:
		body = m.settingsBody()
	case pause.OverlayComments:
		body = helperStyle.Render("Replies are not loaded in this build.")
	case pause.OverlayShare:
		if post, ok := m.activePost(); ok {
			body = "Share: " + post.URI
		}
	case pause.OverlayLinks:
		body = m.linksBody()
	case pause.OverlayNotifications:
		body = helperStyle.Render("No new activity.")
	case pause.OverlayContextMenu:
		body = joinNonEmpty([]string{"s save", "o share", "p profile", "u mute"})
	}
	title := sectionHeaderStyle.Render(top.String())
	return overlayStyle.Render(joinNonEmpty([]string{title, body}))
}

func (m *model) manageFeedsBody() string {
	lines := []string{m.feedFilter.View()}
	matches := m.filteredFeeds()
	if len(matches) == 0 {
		lines = append(lines, helperStyle.Render("No matching feeds."))
	}
	for i, f := range matches {
		cursor := "  "
		if i == m.feedCursor {
			cursor = "> "
		}
		line := cursor + f.Name
		if f.Description != "" {
			line += "  " + helperStyle.Render(truncate(f.Description, 40))
		}
		if i == m.feedCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, helperStyle.Render("enter to open · ctrl+p to pin the open feed"))
	return joinNonEmpty(lines)
}

func (m *model) libraryBody() string {
	records := m.ledger.RecordURIs()
	if len(records) == 0 {
		return helperStyle.Render("No saved posts yet. Press s on a post.")
	}
	byURI := map[string]atp.Post{}
	for _, p := range m.session.Items() {
		byURI[p.URI] = p
	}
	lines := []string{}
	for postURI := range records {
		if p, ok := byURI[postURI]; ok {
			lines = append(lines, fmt.Sprintf("@%s  %s", p.Author.Handle, truncate(p.Text, 50)))
		} else {
			lines = append(lines, helperStyle.Render(postURI))
		}
	}
	return joinNonEmpty(lines)
}

func (m *model) profileBody() string {
	if m.profile == nil {
		return helperStyle.Render(m.spinner.View() + " loading…")
	}
	p := m.profile
	name := p.DisplayName
	if name == "" {
		name = p.Handle
	}
	lines := []string{
		authorStyle.Render(name) + " " + helperStyle.Render("@"+p.Handle),
		fmt.Sprintf("%d followers · %d following · %d posts", p.Followers, p.Follows, p.Posts),
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		lines = append(lines, wordwrap.String(desc, m.width-8))
	}
	return joinNonEmpty(lines)
}

func (m *model) settingsBody() string {
	if len(m.preferences) == 0 {
		return helperStyle.Render("No account preferences loaded.")
	}
	lines := []string{}
	for _, p := range m.preferences {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Key, p.Value))
	}
	lines = append(lines, helperStyle.Render("a toggles adult content; edits are written to the server."))
	return joinNonEmpty(lines)
}

func (m *model) linksBody() string {
	post, ok := m.activePost()
	if !ok {
		return helperStyle.Render("No item selected.")
	}
	lines := []string{"Post: " + post.URI}
	if post.VideoPlaylist != "" {
		lines = append(lines, "Video: "+post.VideoPlaylist)
	}
	if post.VideoThumb != "" {
		lines = append(lines, "Thumb: "+post.VideoThumb)
	}
	return joinNonEmpty(lines)
}

func (m *model) footerView() string {
	parts := []string{}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.loading() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	if m.helpVisible {
		parts = append(parts, helperStyle.Render(keyLegend), m.helpView())
		if last := m.lastJob; last.ID != "" {
			parts = append(parts, helperStyle.Render(fmt.Sprintf(
				"last job %s %s in %s", last.ID, last.Status, last.Duration.Round(time.Millisecond))))
		}
	} else {
		parts = append(parts, helperStyle.Render("? help · q quit"))
	}
	return joinNonEmpty(parts)
}

func (m *model) helpView() string {
	steps := guide.Build(guide.State{
		Authenticated: m.authed,
		FeedTitle:     m.session.Selector().Title,
		SavedFeeds:    len(m.savedFeeds),
		SavedPosts:    m.ledger.Count(),
	})
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		lines = append(lines, sectionHeaderStyle.Render(s.Title)+" "+wordwrap.String(s.Description, m.width-4))
	}
	return joinNonEmpty(lines)
}

const keyLegend = "j/k scroll · space pause · enter focus · s save · r refresh · " +
	"1/2/3 feeds · f browse feeds · m menu · l library · p profile · c replies · " +
	"o share · d settings · u mute · esc close"

func joinNonEmpty(parts []string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	authorStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	videoStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pausedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	pullStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	placeholderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	temporaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229"))
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	activeCardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1)
	menuStyle          = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).Padding(0, 1)
	overlayStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("81")).Padding(0, 1)
)
