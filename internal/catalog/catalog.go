package catalog

// Catalog bundles the fixed reference tables the app is configured with:
// mood types, trigger tags, badges and premium plans. It is built once at
// startup and passed by injection; nothing mutates it at runtime.
type Catalog struct {
	moods    map[string]MoodType
	triggers map[string]TriggerTag
	badges   []Badge
	plans    map[string]Plan
}

// MoodType describes one of the eight selectable moods.
type MoodType struct {
	Key   string `json:"-"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// TriggerTag describes a known factor that can influence a mood entry.
type TriggerTag struct {
	Key   string `json:"-"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Badge is a gamification achievement with a numeric threshold.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement int    `json:"requirement"`
}

// Plan is a purchasable premium plan.
type Plan struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Label      string  `json:"label"`
	PeriodDays int     `json:"period_days"`
}

// Default returns the catalog used by the Umiri.me deployment.
func Default() *Catalog {
	c := &Catalog{
		moods:    make(map[string]MoodType, len(defaultMoods)),
		triggers: make(map[string]TriggerTag, len(defaultTriggers)),
		badges:   defaultBadges,
		plans:    make(map[string]Plan, len(defaultPlans)),
	}
	for _, m := range defaultMoods {
		c.moods[m.Key] = m
	}
	for _, t := range defaultTriggers {
		c.triggers[t.Key] = t
	}
	for _, p := range defaultPlans {
		c.plans[p.ID] = p
	}
	return c
}

// Mood looks up a mood type by key.
func (c *Catalog) Mood(key string) (MoodType, bool) {
	m, ok := c.moods[key]
	return m, ok
}

// Moods returns the full mood table keyed by mood type.
func (c *Catalog) Moods() map[string]MoodType {
	out := make(map[string]MoodType, len(c.moods))
	for k, v := range c.moods {
		out[k] = v
	}
	return out
}

// Trigger looks up a trigger tag. Unknown tags are valid user input: they
// resolve to a pass-through tag whose label is the raw key.
func (c *Catalog) Trigger(key string) TriggerTag {
	if t, ok := c.triggers[key]; ok {
		return t
	}
	return TriggerTag{Key: key, Label: key}
}

// Badges returns the badge table in definition order.
func (c *Catalog) Badges() []Badge {
	return c.badges
}

// Plan looks up a premium plan by id.
func (c *Catalog) Plan(id string) (Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// Plans returns all premium plans keyed by plan id.
func (c *Catalog) Plans() map[string]Plan {
	out := make(map[string]Plan, len(c.plans))
	for k, v := range c.plans {
		out[k] = v
	}
	return out
}

var defaultMoods = []MoodType{
	{Key: "srecan", Emoji: "😊", Label: "Srećan", Score: 5, Color: "#769F78"},
	{Key: "odusevljen", Emoji: "🤩", Label: "Oduševljen", Score: 5, Color: "#E8C170"},
	{Key: "miran", Emoji: "😌", Label: "Miran", Score: 4, Color: "#7CA5B8"},
	{Key: "neutralan", Emoji: "😐", Label: "Neutralan", Score: 3, Color: "#8A9999"},
	{Key: "umoran", Emoji: "🥱", Label: "Umoran", Score: 2, Color: "#B8A07C"},
	{Key: "tuzan", Emoji: "😢", Label: "Tužan", Score: 1, Color: "#7CA5B8"},
	{Key: "anksiozan", Emoji: "😰", Label: "Anksiozan", Score: 1, Color: "#D66A6A"},
	{Key: "ljut", Emoji: "😡", Label: "Ljut", Score: 1, Color: "#D66A6A"},
}

var defaultTriggers = []TriggerTag{
	{Key: "posao", Label: "Posao", Icon: "Briefcase"},
	{Key: "san", Label: "San", Icon: "Moon"},
	{Key: "vezba", Label: "Vežbanje", Icon: "Dumbbell"},
	{Key: "drustvo", Label: "Društvo", Icon: "Users"},
	{Key: "ishrana", Label: "Ishrana", Icon: "UtensilsCrossed"},
	{Key: "porodica", Label: "Porodica", Icon: "Home"},
	{Key: "zdravlje", Label: "Zdravlje", Icon: "HeartPulse"},
	{Key: "vreme", Label: "Vreme", Icon: "Cloud"},
	{Key: "novac", Label: "Novac", Icon: "Wallet"},
	{Key: "ucenje", Label: "Učenje", Icon: "BookOpen"},
	{Key: "odmor", Label: "Odmor", Icon: "Palmtree"},
	{Key: "kreativnost", Label: "Kreativnost", Icon: "Palette"},
}

var defaultBadges = []Badge{
	{ID: "first_mood", Name: "Prvi Korak", Description: "Zabeležio/la prvi mood", Icon: "🌱", Requirement: 1},
	{ID: "week_streak", Name: "Nedeljna Navika", Description: "7 dana zaredom", Icon: "🔥", Requirement: 7},
	{ID: "month_streak", Name: "Mesečni Ratnik", Description: "30 dana zaredom", Icon: "⭐", Requirement: 30},
	{ID: "mood_explorer", Name: "Istraživač Emocija", Description: "Koristio/la svih 8 raspoloženja", Icon: "🎨", Requirement: 8},
	{ID: "note_writer", Name: "Dnevnički Pisac", Description: "Napisao/la 10 beleški", Icon: "📝", Requirement: 10},
	{ID: "century", Name: "Stotka", Description: "100 zabeleženih raspoloženja", Icon: "💯", Requirement: 100},
}

var defaultPlans = []Plan{
	{ID: "monthly", Amount: 500, Currency: "rsd", Label: "Mesečni plan", PeriodDays: 30},
	{ID: "yearly", Amount: 4200, Currency: "rsd", Label: "Godišnji plan", PeriodDays: 365},
}
