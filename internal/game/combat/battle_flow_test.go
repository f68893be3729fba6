package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/character"
	"github.com/castellan/skirmish/internal/game/combat"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/testutil"
)

func firstLiving(b *combat.Battle) int {
	for i, e := range b.Enemies() {
		if e.Alive() {
			return i
		}
	}
	return -1
}

func TestRound_PlayerActsBeforeEnemies(t *testing.T) {
	src := testutil.Draws(
		0.5, 0.5, 0.5, // player attack
		0.5, 0.5, 0.5, 0.5, 0.5, // enemy attack
	)
	b, _ := newBattle(t, src)

	var narratives []string
	report, err := b.PlayerTurn("attack", 0)
	require.NoError(t, err)
	for _, e := range report.Events {
		narratives = append(narratives, e.Narrative)
	}
	report, err = b.EnemyTurn(0)
	require.NoError(t, err)
	for _, e := range report.Events {
		narratives = append(narratives, e.Narrative)
	}

	require.Len(t, narratives, 2)
	assert.Equal(t, "Your Attack deals 11 damage to Goblin!", narratives[0],
		"the player's action resolves first within a round")
	assert.Equal(t, "Goblin attacks! You take 6 damage.", narratives[1])
	assert.Zero(t, src.Remaining())
}

func TestBattle_SameSeedReplaysIdentically(t *testing.T) {
	play := func(seed int64) []string {
		b, _ := newBattle(t, rng.NewSeededSource(seed), newGoblin(1), newGoblin(2))
		var narratives []string
		collect := func(r *combat.TurnReport) {
			for _, e := range r.Events {
				narratives = append(narratives, e.Narrative)
			}
		}

		for round := 0; round < 5 && !b.Result().Terminal(); round++ {
			report, err := b.PlayerTurn("attack", firstLiving(b))
			require.NoError(t, err)
			collect(report)

			for i := range b.Enemies() {
				if b.Result().Terminal() {
					break
				}
				report, err := b.EnemyTurn(i)
				require.NoError(t, err)
				collect(report)
			}
			if b.Result().Terminal() {
				break
			}
			report, err = b.NextTurn()
			require.NoError(t, err)
			collect(report)
		}
		return narratives
	}

	first := play(42)
	second := play(42)
	assert.Equal(t, first, second, "identical seeds must reproduce identical battles")
	assert.NotEmpty(t, first)
}

func TestBattle_RandomPlaythroughsHoldInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		enemyCount := rapid.IntRange(1, 3).Draw(t, "enemies")

		enemies := make([]*npc.Instance, enemyCount)
		for i := range enemies {
			enemies[i] = npc.NewInstance(goblinTemplate(), rapid.IntRange(1, 3).Draw(t, "level"))
		}

		player, err := character.New("Maeve", character.ClassWarrior, warriorAttrs, 1, nil)
		if err != nil {
			t.Fatalf("player fixture: %v", err)
		}
		catalog, err := action.NewCatalog(catalogDefs(), nil)
		if err != nil {
			t.Fatalf("catalog fixture: %v", err)
		}
		b, err := combat.New(combat.Config{
			Player:  player,
			Enemies: enemies,
			Catalog: catalog,
			Source:  rng.NewSeededSource(seed),
		})
		if err != nil {
			t.Fatalf("battle fixture: %v", err)
		}

		maxHealth := player.Derived().MaxHealth
		prevTurn := b.Turn()

		checkState := func() {
			if h := player.Derived().Health; h < 0 || h > maxHealth {
				t.Fatalf("player health %d outside [0, %d]", h, maxHealth)
			}
			for _, e := range b.Enemies() {
				if h := e.Derived().Health; h < 0 || h > e.Derived().MaxHealth {
					t.Fatalf("enemy health %d outside [0, %d]", h, e.Derived().MaxHealth)
				}
			}
			if b.Turn() < prevTurn {
				t.Fatalf("turn counter went backwards: %d -> %d", prevTurn, b.Turn())
			}
			prevTurn = b.Turn()
		}

		for round := 0; round < 40 && !b.Result().Terminal(); round++ {
			act := rapid.SampledFrom([]string{"attack", "attack", "defend", "flee"}).Draw(t, "action")
			if _, err := b.PlayerTurn(act, firstLiving(b)); err != nil {
				// Long battles can drain stamina; anything else is a defect.
				if _, fallbackErr := b.PlayerTurn("defend", -1); fallbackErr != nil {
					t.Fatalf("player turn %q: %v (fallback: %v)", act, err, fallbackErr)
				}
			}
			checkState()

			for i := 0; i < enemyCount && !b.Result().Terminal(); i++ {
				if _, err := b.EnemyTurn(i); err != nil {
					t.Fatalf("enemy turn %d: %v", i, err)
				}
				checkState()
			}

			if !b.Result().Terminal() {
				if _, err := b.NextTurn(); err != nil {
					t.Fatalf("next turn: %v", err)
				}
				checkState()
			}
		}

		switch b.Result() {
		case combat.ResultOngoing:
			// A stalemate within the round budget is fine.
		case combat.ResultVictory:
			wantXP, wantGold := 0, 0
			for _, e := range b.Enemies() {
				if e.Alive() {
					t.Fatalf("victory with living enemy %s", e.Name())
				}
				xp, gold := e.Rewards()
				wantXP += xp
				wantGold += gold
			}
			rewards, ok := b.Rewards()
			if !ok {
				t.Fatal("victory without rewards")
			}
			if rewards.XP != wantXP || rewards.Gold != wantGold {
				t.Fatalf("rewards %+v, want {%d %d}", rewards, wantXP, wantGold)
			}
		case combat.ResultDefeat:
			if player.Derived().Alive() {
				t.Fatal("defeat with a living player")
			}
		case combat.ResultFled:
		default:
			t.Fatalf("unknown result %q", b.Result())
		}

		if b.Result().Terminal() {
			if _, err := b.PlayerTurn("attack", 0); err == nil {
				t.Fatal("terminal battle accepted a player turn")
			}
			if _, err := b.NextTurn(); err == nil {
				t.Fatal("terminal battle accepted a turn advance")
			}
		}
	})
}
