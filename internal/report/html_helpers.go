package report

import (
	"fmt"
	"strings"
)

// reportCSS returns the inline styles of the activity email.
// Email clients ignore external stylesheets, so everything is inlined in <head>.
func reportCSS() string {
	return `<style>
		.container { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
		.header { background: #24292e; color: white; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
		.section { margin-bottom: 25px; }
		.section-title { color: #24292e; border-bottom: 2px solid #e1e4e8; padding-bottom: 8px; margin-bottom: 15px; }
		.event-item { padding: 10px; margin: 5px 0; background: #f6f8fa; border-radius: 3px; }
		.time { color: #586069; font-size: 0.9em; }
		.repo { color: #0366d6; text-decoration: none; }
		.notification { padding: 10px; margin: 5px 0; background: #fff3cd; border-radius: 3px; }
		.deployment { padding: 10px; margin: 5px 0; background: #d1ecf1; border-radius: 3px; }
		.no-activity { color: #586069; font-style: italic; }
		.footer { color: #586069; font-size: 0.8em; margin-top: 20px; text-align: center; }
	</style>`
}

// htmlHead returns the document head with the report styles.
func htmlHead(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>%s</title>
	%s
</head>`, escapeHTML(title), reportCSS())
}

// htmlFooter closes the container and the document.
func htmlFooter() string {
	return `
		<div class="footer">Generated by GitHub Activity Dashboard</div>
	</div>
</body>
</html>`
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// repoLink returns a link to a repository page on the web UI.
func repoLink(webURL, fullName string) string {
	return fmt.Sprintf(`<a class="repo" href="%s/%s">%s</a>`,
		escapeHTML(strings.TrimRight(webURL, "/")), escapeHTML(fullName), escapeHTML(fullName))
}

// sectionStart opens a titled report section.
func sectionStart(title string) string {
	return fmt.Sprintf(`
		<div class="section">
			<h2 class="section-title">%s</h2>`, escapeHTML(title))
}

// sectionEnd closes a report section.
func sectionEnd() string {
	return `
		</div>`
}

// noActivity renders the placeholder shown for an empty section.
func noActivity(text string) string {
	return fmt.Sprintf(`
			<p class="no-activity">%s</p>`, escapeHTML(text))
}
