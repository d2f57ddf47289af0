package workflow

import (
	"regexp"
	"strings"
)

// Extraction rules. Each rule scrapes one field out of free-form command or
// CLI output text and reports whether it matched, so a format drift upstream
// breaks exactly one rule and one test.
var (
	filesChangedPattern = regexp.MustCompile(`(\d+) files? changed`)
	titleFlagPattern    = regexp.MustCompile(`--title[= ](?:"([^"]+)"|'([^']+)')`)
	githubURLPattern    = regexp.MustCompile(`https://github\.com/\S+`)
	trailingNumPattern  = regexp.MustCompile(`(\d+)\s*$`)
	closeArgPattern     = regexp.MustCompile(`close\s+(\d+)`)
	mergeArgPattern     = regexp.MustCompile(`merge\s+(\d+)`)
	viewArgPattern      = regexp.MustCompile(`view\s+(\d+)`)
	hashRefPattern      = regexp.MustCompile(`#(\d+)`)
	pullsPathPattern    = regexp.MustCompile(`pulls/(\d+)`)
	linkedIssuePattern  = regexp.MustCompile(`(?i)\b(?:close[sd]?|fix(?:e[sd])?|resolve[sd]?)\s+#(\d+)`)
)

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}
	return "", false
}

// ExtractFilesChanged pulls the "<N> file(s) changed" count from git output.
func ExtractFilesChanged(output string) (string, bool) {
	return firstGroup(filesChangedPattern, output)
}

// ExtractTitleFlag pulls the quoted --title argument from an issue-create command.
func ExtractTitleFlag(command string) (string, bool) {
	return firstGroup(titleFlagPattern, command)
}

// ExtractIssueURL pulls the first GitHub URL from CLI output.
func ExtractIssueURL(output string) (string, bool) {
	m := githubURLPattern.FindString(output)
	return m, m != ""
}

// ExtractTrailingNumber pulls the trailing digits of a URL, which for
// gh-created issues is the issue number.
func ExtractTrailingNumber(url string) (string, bool) {
	return firstGroup(trailingNumPattern, strings.TrimRight(url, "/"))
}

// ExtractCloseNumber pulls the numeric argument following "close".
func ExtractCloseNumber(command string) (string, bool) {
	return firstGroup(closeArgPattern, command)
}

// ExtractMergeNumber pulls the PR number following "merge".
func ExtractMergeNumber(command string) (string, bool) {
	return firstGroup(mergeArgPattern, command)
}

// ExtractViewNumber pulls the PR number following "view".
func ExtractViewNumber(command string) (string, bool) {
	return firstGroup(viewArgPattern, command)
}

// ExtractHashRef pulls the first "#<digits>" token from output.
func ExtractHashRef(output string) (string, bool) {
	return firstGroup(hashRefPattern, output)
}

// ExtractPullsPathNumber pulls the PR number from a "pulls/<digits>" API path.
func ExtractPullsPathNumber(command string) (string, bool) {
	return firstGroup(pullsPathPattern, command)
}

// ExtractLinkedIssues pulls all closes/fixes/resolves issue references from a
// PR body, deduplicated in first-seen order.
func ExtractLinkedIssues(body string) []string {
	matches := linkedIssuePattern.FindAllStringSubmatch(body, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var nums []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			nums = append(nums, m[1])
		}
	}
	return nums
}
