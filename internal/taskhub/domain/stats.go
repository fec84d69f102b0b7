package domain

// StatsSummary holds the headline counters on the workspace dashboard.
// TotalProjects comes from a count query over every project in the workspace
// (archived included), so it may exceed the number of projects represented in
// the chart views. That asymmetry is load-bearing for the dashboard.
type StatsSummary struct {
	TotalProjects          int `json:"totalProjects"`
	TotalTasks             int `json:"totalTasks"`
	TotalProjectInProgress int `json:"totalProjectInProgress"`
	TotalProjectCompleted  int `json:"totalProjectCompleted"`
	TotalTaskCompleted     int `json:"totalTaskCompleted"`
	TotalTaskToDo          int `json:"totalTaskToDo"`
	TotalTaskInProgress    int `json:"totalTaskInProgress"`
}

// TaskTrend is one weekday bucket of the trailing-week histogram. The chart
// layer keys on Name, which is always one of Sun..Sat in fixed order.
type TaskTrend struct {
	Name       string `json:"name"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
	ToDo       int    `json:"toDo"`
}

// ChartSlice is one labeled, colored slice of a breakdown chart.
type ChartSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ProjectProductivity pairs a project's total task count with how many of
// its non-archived tasks are Done.
type ProjectProductivity struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// WorkspaceStats is the composite bundle the dashboard renders. It is
// produced in one read-only pass and never partially populated.
type WorkspaceStats struct {
	Summary        StatsSummary
	TaskTrends     []TaskTrend
	ProjectStatus  []ChartSlice
	TaskPriority   []ChartSlice
	Productivity   []ProjectProductivity
	UpcomingTasks  []Task
	RecentProjects []Project
}
