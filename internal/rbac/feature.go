// ABOUTME: Feature key catalogue and the compiled-in static permission baseline.
// ABOUTME: The baseline maps each feature to the roles allowed by default.
package rbac

// FeatureKey identifies a gated capability or screen in the dashboard.
type FeatureKey string

// The full feature catalogue. Keys match the frontend's screen identifiers.
const (
	FeatureDashboard      FeatureKey = "dashboard"
	FeaturePortfolio      FeatureKey = "portfolio"
	FeatureProjects       FeatureKey = "projects"
	FeatureTasks          FeatureKey = "tasks"
	FeatureMeetings       FeatureKey = "meetings"
	FeatureActionItems    FeatureKey = "actionItems"
	FeatureRisks          FeatureKey = "risks"
	FeatureIssues         FeatureKey = "issues"
	FeatureStakeholders   FeatureKey = "stakeholders"
	FeatureReports        FeatureKey = "reports"
	FeatureDocuments      FeatureKey = "documents"
	FeatureAIInsights     FeatureKey = "aiInsights"
	FeatureIntegrations   FeatureKey = "integrations"
	FeatureInbox          FeatureKey = "inbox"
	FeatureCalendar       FeatureKey = "calendar"
	FeatureTimesheets     FeatureKey = "timesheets"
	FeatureBudgets        FeatureKey = "budgets"
	FeatureRoleRequests   FeatureKey = "roleRequests"
	FeatureAdminDashboard FeatureKey = "adminDashboard"
)

var catalogue = []FeatureKey{
	FeatureDashboard,
	FeaturePortfolio,
	FeatureProjects,
	FeatureTasks,
	FeatureMeetings,
	FeatureActionItems,
	FeatureRisks,
	FeatureIssues,
	FeatureStakeholders,
	FeatureReports,
	FeatureDocuments,
	FeatureAIInsights,
	FeatureIntegrations,
	FeatureInbox,
	FeatureCalendar,
	FeatureTimesheets,
	FeatureBudgets,
	FeatureRoleRequests,
	FeatureAdminDashboard,
}

// baseline is the default feature → allowed-roles mapping. The admin role is
// intentionally absent everywhere: it is granted by the resolver's escape
// hatch, never by data. adminDashboard has no baseline roles for the same
// reason — it is reachable only through the escape hatch or an explicit
// override.
var baseline = map[FeatureKey][]Role{
	FeatureDashboard:      {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeaturePortfolio:      {RoleProgramManager, RolePMO, RoleExecutive},
	FeatureProjects:       {RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureTasks:          {RoleUser, RoleProjectManager, RoleSeniorProjectManager},
	FeatureMeetings:       {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureActionItems:    {RoleUser, RoleProjectManager, RoleSeniorProjectManager},
	FeatureRisks:          {RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureIssues:         {RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureStakeholders:   {RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeatureReports:        {RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeatureDocuments:      {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureAIInsights:     {RolePMO, RoleExecutive},
	FeatureIntegrations:   {RolePMO},
	FeatureInbox:          {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeatureCalendar:       {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO},
	FeatureTimesheets:     {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RolePMO},
	FeatureBudgets:        {RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeatureRoleRequests:   {RoleUser, RoleProjectManager, RoleSeniorProjectManager, RoleProgramManager, RolePMO, RoleExecutive},
	FeatureAdminDashboard: {},
}

// Catalogue returns every feature key in display order.
func Catalogue() []FeatureKey {
	out := make([]FeatureKey, len(catalogue))
	copy(out, catalogue)
	return out
}

// KnownFeature reports whether key is part of the catalogue.
func KnownFeature(key FeatureKey) bool {
	_, ok := baseline[key]
	return ok
}

// BaselineRoles returns the roles allowed to use key by default. The slice is
// a copy; callers may mutate it freely.
func BaselineRoles(key FeatureKey) []Role {
	roles, ok := baseline[key]
	if !ok {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
