package prompts

// Template texts. Variables are flat string maps; kind-specific field names
// follow the session's idea schema (project ideas vs research questions).

const contextSummaryText = `You are a research analyst. Provide a concise, neutral summary of the
following text. Focus on key concepts, definitions, and the current state of
the topic.

Text:
---
{{.text}}
---

Provide your summary in a single, dense paragraph.`

const personaProjectText = `Assemble a team of 4 distinct expert personas to brainstorm software
project ideas about "{{.topic}}".

Context:
{{.context}}

Respond with a JSON object: {"personas": [{"role": "...", "goal": "...",
"backstory": "..."}]}. No text outside the JSON.`

const personaResearchText = `Assemble a team of 4 distinct academic expert personas to brainstorm
research paper directions on "{{.topic}}".

Context:
{{.context}}

Respond with a JSON object: {"personas": [{"role": "...", "goal": "...",
"backstory": "..."}]}. No text outside the JSON.`

const ideationProjectText = `You are {{.role}}. {{.backstory}} Your goal: {{.goal}}.

Brainstorm 3 project ideas about "{{.topic}}".

Context:
{{.context}}

Respond with a JSON object: {"project_ideas": [{"idea": "...",
"target_audience": "...", "problem_solved": "...", "rationale": "..."}]}.
No text outside the JSON.`

const ideationResearchText = `You are {{.role}}. {{.backstory}} Your goal: {{.goal}}.

Propose 3 research directions on "{{.topic}}".

Context:
{{.context}}

Respond with a JSON object: {"research_ideas": [{"research_question": "...",
"potential_methodology": "...", "potential_contribution": "...",
"rationale": "..."}]}. No text outside the JSON.`

const discussionProjectText = `You are {{.role}}. {{.backstory}}

The team brainstormed the following project ideas about "{{.topic}}":

{{.all_ideas}}

Select the 2-3 ideas you would champion, keeping each idea's original
"idea" text verbatim, and give your own rationale for each. Respond with a
JSON object: {"project_ideas": [{"idea": "...", "target_audience": "...",
"problem_solved": "...", "rationale": "..."}]}. No text outside the JSON.`

const discussionResearchText = `You are {{.role}}. {{.backstory}}

The team proposed the following research directions on "{{.topic}}":

{{.all_ideas}}

Select the 2-3 directions you would champion, keeping each
"research_question" text verbatim, and give your own rationale for each.
Respond with a JSON object: {"research_ideas": [{"research_question": "...",
"potential_methodology": "...", "potential_contribution": "...",
"rationale": "..."}]}. No text outside the JSON.`

const critiqueProjectText = `You are a red-team reviewer. Critique each of the following project ideas,
one critique per idea, focusing on risks, blind spots, and feasibility.

{{.ideas}}

Respond with a JSON object: {"critiques": [{"idea_title": "...",
"critique": "..."}]} where idea_title repeats each idea's title verbatim.
No text outside the JSON.`

const critiqueResearchText = `You are a red-team reviewer. Critique each of the following research
directions, one critique per direction, focusing on methodological risks
and novelty gaps.

{{.ideas}}

Respond with a JSON object: {"critiques": [{"idea_title": "...",
"critique": "..."}]} where idea_title repeats each research question
verbatim. No text outside the JSON.`

const evaluationProjectText = `You are a pragmatic analyst. Evaluate the following project ideas and
their critiques, then select the 3 strongest.

{{.raw_ideas}}

Write your comparative analysis as markdown, then finish with exactly one
fenced code block tagged json containing a JSON array of the selected
ideas: [{"title": "...", "description": "..."}].`

const evaluationResearchText = `You are a pragmatic analyst. Evaluate the following research directions
and their critiques, then select the 3 strongest.

{{.raw_ideas}}

Write your comparative analysis as markdown, then finish with exactly one
fenced code block tagged json containing a JSON array of the selected
directions: [{"title": "...", "description": "..."}].`

const planProjectText = `Create a project initiation plan for the following idea.

Title: {{.title}}
Description: {{.description}}

Relevant literature:
{{.literature}}

Produce a markdown plan covering goals, milestones, risks, and a suggested
architecture. Include one fenced code block tagged mermaid with a flowchart
of the major phases.`

const planResearchText = `Create a research paper outline for the following direction.

Title: {{.title}}
Description: {{.description}}

Relevant literature:
{{.literature}}

Produce a markdown outline covering the research question, methodology,
expected contributions, and evaluation. Include one fenced code block
tagged mermaid with a flowchart of the study design.`
