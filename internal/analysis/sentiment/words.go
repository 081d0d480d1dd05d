package sentiment

// negationPhrases is checked in order; the first phrase found adds its
// penalty to the raw score.
var negationPhrases = []struct {
	phrase  string
	penalty float64
}{
	{"not what i wanted", -3},
	{"not what i expected", -2},
	{"not happy", -4},
	{"not good", -4},
	{"not great", -4},
	{"not okay", -3},
	{"not ok", -3},
	{"not fine", -3},
	{"not excited", -4},
	{"not feeling well", -3},
	{"not feeling good", -5},
	{"don't like", -4},
	{"do not like", -4},
	{"don't love", -5},
	{"can't stand", -3},
	{"can't cope", -3},
	{"not bad", 4},
	{"no longer", -1},
}

// customBoosts adds domain weight for words that matter in a companion chat.
var customBoosts = map[string]float64{
	"lonely":      -1,
	"overwhelmed": -2,
	"anxious":     -1,
	"anxiety":     -1,
	"stressed":    -1,
	"exhausted":   -2,
	"burnout":     -3,
	"burnt":       -1,
	"heartbroken": -3,
	"hopeless":    -1,
	"worthless":   -1,
	"grateful":    1,
	"proud":       1,
	"thrilled":    1,
	"relieved":    1,
	"blessed":     1,
	"loved":       1,
	"motivated":   2,
	"calm":        1,
}

// baseLexicon holds per-word polarity in the range -5..5.
var baseLexicon = map[string]int{
	"abandoned":     -2,
	"abuse":         -3,
	"accomplished":  2,
	"ache":          -2,
	"admire":        3,
	"adore":         3,
	"afraid":        -2,
	"agony":         -3,
	"alone":         -2,
	"amazing":       4,
	"anger":         -3,
	"angry":         -3,
	"annoyed":       -2,
	"annoying":      -2,
	"anxious":       -2,
	"appreciate":    2,
	"ashamed":       -2,
	"awesome":       4,
	"awful":         -3,
	"bad":           -3,
	"beautiful":     3,
	"best":          3,
	"better":        2,
	"betrayed":      -3,
	"bitter":        -2,
	"blessed":       2,
	"bored":         -2,
	"boring":        -3,
	"brave":         2,
	"brilliant":     4,
	"broken":        -1,
	"calm":          2,
	"care":          2,
	"celebrate":     3,
	"cheerful":      2,
	"comfortable":   2,
	"confident":     2,
	"confused":      -2,
	"cool":          1,
	"crap":          -3,
	"crushed":       -2,
	"cry":           -1,
	"crying":        -2,
	"cute":          2,
	"damn":          -2,
	"dead":          -3,
	"delighted":     3,
	"depressed":     -2,
	"depressing":    -2,
	"despair":       -3,
	"devastated":    -2,
	"disappointed":  -2,
	"disappointing": -2,
	"disaster":      -2,
	"disgusted":     -3,
	"dread":         -2,
	"dreadful":      -3,
	"dumb":          -3,
	"eager":         2,
	"easy":          1,
	"ecstatic":      4,
	"embarrassed":   -2,
	"empty":         -1,
	"encouraged":    2,
	"energized":     2,
	"enjoy":         2,
	"enjoyed":       2,
	"excellent":     3,
	"excited":       3,
	"exciting":      3,
	"exhausted":     -2,
	"fail":          -2,
	"failed":        -2,
	"failure":       -2,
	"fantastic":     4,
	"fear":          -2,
	"fearful":       -2,
	"fine":          2,
	"fun":           4,
	"funny":         4,
	"furious":       -3,
	"glad":          3,
	"good":          3,
	"gorgeous":      3,
	"grateful":      3,
	"great":         3,
	"grief":         -2,
	"guilty":        -3,
	"happiness":     3,
	"happy":         3,
	"hate":          -3,
	"hated":         -3,
	"hateful":       -3,
	"heartbroken":   -3,
	"helpful":       2,
	"helpless":      -2,
	"hope":          2,
	"hopeful":       2,
	"hopeless":      -2,
	"horrible":      -3,
	"hurt":          -2,
	"ignored":       -2,
	"impressed":     3,
	"inspired":      2,
	"insecure":      -2,
	"irritated":     -3,
	"jealous":       -2,
	"joy":           3,
	"joyful":        3,
	"kind":          2,
	"laugh":         1,
	"like":          2,
	"lonely":        -2,
	"lose":          -3,
	"lost":          -3,
	"love":          3,
	"loved":         3,
	"lovely":        3,
	"lucky":         3,
	"mad":           -3,
	"miserable":     -3,
	"miss":          -2,
	"mistake":       -2,
	"nervous":       -2,
	"nice":          3,
	"optimistic":    2,
	"pain":          -2,
	"painful":       -2,
	"panic":         -3,
	"peaceful":      2,
	"perfect":       3,
	"pleased":       3,
	"positive":      2,
	"pretty":        1,
	"problem":       -2,
	"proud":         2,
	"rejected":      -1,
	"relaxed":       2,
	"relief":        1,
	"relieved":      2,
	"sad":           -2,
	"sadness":       -2,
	"safe":          1,
	"satisfied":     2,
	"scared":        -2,
	"smile":         2,
	"sorry":         -1,
	"stressed":      -2,
	"strong":        2,
	"stupid":        -2,
	"success":       2,
	"successful":    3,
	"suck":          -3,
	"sucks":         -3,
	"suffering":     -2,
	"super":         3,
	"support":       2,
	"supported":     2,
	"terrible":      -3,
	"terrified":     -3,
	"thank":         2,
	"thanks":        2,
	"thankful":      2,
	"thrilled":      5,
	"tired":         -2,
	"trust":         1,
	"ugly":          -3,
	"unhappy":       -2,
	"upset":         -2,
	"useless":       -2,
	"warm":          1,
	"weak":          -2,
	"win":           4,
	"wonderful":     4,
	"worried":       -3,
	"worry":         -3,
	"worse":         -3,
	"worst":         -3,
	"worthless":     -2,
	"wow":           4,
	"wrong":         -2,
	"yay":           3,
}
