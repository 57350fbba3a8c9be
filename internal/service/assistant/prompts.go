package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/taskchat/internal/core"
)

const routerSystemPrompt = `You are the routing stage of a task analytics assistant.
Decide how the user's latest message should be answered and select exactly one
of the provided functions. Use search_activities when the user asks about
specific activities, people, tasks, statuses or months. Use list_users when
they ask who is on the team. Use analyze_all_data for summaries, statistics or
questions spanning the whole dataset. Use general_conversation for greetings,
small talk and anything that needs no data.`

// routerFreeformPrompt is the no-schema variant: the model answers with a
// bare strategy name which we match by substring.
const routerFreeformPrompt = `You are the routing stage of a task analytics assistant.
Reply with exactly one of these strategy names and nothing else:
search_activities, list_users, analyze_all_data, general_conversation.`

const composerSystemPrompt = `You are TaskChat, an assistant that answers questions
about a team's tasks and activities. Answer using ONLY the data provided below.
If the data is empty, say politely that nothing matched the question.
Format tabular data as an HTML table (<table>, <tr>, <th>, <td>). Keep answers
specific and concise. Do not wrap the answer in code fences.`

const personaSystemPrompt = `You are TaskChat, a friendly assistant for a team's
task tracker. You can look up activities, assignees, statuses and timelines when
asked. Keep replies short and conversational.`

const analysisSystemPrompt = `You are TaskChat, an analyst for a team's task
tracker. Answer the question using ONLY the dataset provided below. The current
date is given so you can resolve phrases like "this month". Format tabular data
as an HTML table. Do not wrap the answer in code fences.`

func formatContext(turns []core.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", t.UserMessage, t.AIResponse)
	}
	return b.String()
}

func formatRecords(records []core.ActivityRecord) string {
	if len(records) == 0 {
		return "(no matching activities)"
	}
	var b strings.Builder
	b.WriteString("activity | task | assignee | start | end | status\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s\n",
			r.Activity, r.Task, r.Assignee,
			r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly), r.Status)
	}
	return b.String()
}

func formatAssignees(names []string) string {
	if len(names) == 0 {
		return "(no known users)"
	}
	var b strings.Builder
	b.WriteString("Known users:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}
