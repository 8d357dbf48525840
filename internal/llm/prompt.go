package llm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chris/standup/internal/store"
)

const SystemPrompt = `You are helping prepare daily scrum updates.

Given a chronological list of short work notes for a single day:
- If a work note contains a ticket number, fetch the ticket details (for example from Jira) and use the description to add context to that work note.
  - When adding ticket details, DO NOT add new bullets for the ticket information. Only APPEND the extra context to the existing work item.
  - For example, if a note says "worked on CPT-XXXX", output "worked on {details from CPT-XXXX}".
- Differentiate between work done by the user and work done by other developers:
  1. Verifying work means verifying a different developer's work.
  2. Reviewing a PR means reviewing a different developer's work.
- If a lookup (for example an MCP server call) fails because a permission is missing, output ONLY the exact permission strings you are lacking for that item. Otherwise do NOT mention ANY details relating to that item.
- Collapse redundancy and cluster by topic.
- Produce 3-6 concise items focused on outcomes, shipped work, blockers, and next steps.
- Prefer clear, non-verbose language suitable for a standup update.
- If there are blockers, include them prominently.
- If work spans multiple items, group them sensibly.

** CRITICAL FORMATTING REQUIREMENTS **
Your response MUST follow strict markdown formatting:
- Start IMMEDIATELY with the first section header (## Completed, ## In Progress, ## Blockers, or ## Next Steps)
- Use EXACTLY these section headers, in this order: ## Completed, ## In Progress, ## Blockers, ## Next Steps
- GROUP WORK ITEMS THAT CONTAIN THE SAME TICKET NUMBER TOGETHER UNDER A SINGLE NESTED LIST
- Only include sections that have actual content
- Use dashes (-) for all bullet points
- Indent sub-bullets with two spaces
- Bold text for emphasis using **text**
- Include ticket references in parentheses like (JIRA-123)
- No trailing whitespace on lines
- Single blank line between sections
- NO introductory text, explanations, or preamble - start directly with a section header

Example format:

## Completed
- Completed task description (TICKET-123)
  - Additional detail if needed
- (TICKET-456)
  - task 1
  - task 2

## In Progress
- Current work item description
- Status or progress update

## Blockers
- **Critical blocker description**
- **What is needed to resolve**`

// notesHeader separates the instructions from the notes when a provider
// takes the prompt as a single body.
const notesHeader = "\n\nWork notes for today:\n"

// timeLayout matches the en-US locale rendering of a wall-clock time.
const timeLayout = "3:04:05 PM"

// charsPerToken is the usual rough estimate for English text.
const charsPerToken = 4

// Prompt is a rendered summarization request.
type Prompt struct {
	System string // instructions, sent as the system message
	Notes  string // one "- [time] text" line per entry
}

// String joins the instructions and the notes into one request body.
func (p Prompt) String() string {
	return p.System + notesHeader + p.Notes
}

// EstimatedTokens is a rough size of the full request, used for logging.
func (p Prompt) EstimatedTokens() int {
	n := len(p.String())
	return (n + charsPerToken - 1) / charsPerToken
}

// Builder renders entries into a Prompt. The zero value renders times in
// the process's local time zone with SystemPrompt as the instructions.
type Builder struct {
	Location *time.Location
	System   string
}

// Build sorts a copy of entries by timestamp (stable, so equal timestamps
// keep their recorded order) and renders them under the instructions.
// Identical input always yields identical output.
func (b Builder) Build(entries []store.Entry) Prompt {
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}
	system := b.System
	if system == "" {
		system = SystemPrompt
	}

	sorted := make([]store.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	lines := make([]string, len(sorted))
	for i, e := range sorted {
		lines[i] = fmt.Sprintf("- [%s] %s", e.Timestamp.In(loc).Format(timeLayout), e.Text)
	}
	return Prompt{System: system, Notes: strings.Join(lines, "\n")}
}
