package propaganda

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func TestPostClampsInfluenceAndIndexes(t *testing.T) {
	b := New()
	author := ids.NewAgentID()
	loc := ids.NewLocationID()

	id := b.Post(Params{Author: author, Location: loc, Tick: 10, Type: TypeDeclaration, Content: "no stealing", InfluenceStrength: fixedpoint.FromInt(3)})

	posts := b.PostsAtLocation(loc)
	if len(posts) != 1 || posts[0].ID != id {
		t.Fatalf("expected the new post to be retrievable at its location")
	}
	if posts[0].InfluenceStrength.Cmp(fixedpoint.One) != 0 {
		t.Fatalf("expected influence clamped to 1.0, got %s", posts[0].InfluenceStrength)
	}
}

func TestAutoExpireUsesThreshold(t *testing.T) {
	b := New()
	author := ids.NewAgentID()
	loc := ids.NewLocationID()
	b.Post(Params{Author: author, Location: loc, Tick: 10, Type: TypeDeclaration, Content: "old", InfluenceStrength: fixedpoint.FromPer10000(5000)})
	b.Post(Params{Author: author, Location: loc, Tick: 400, Type: TypeDeclaration, Content: "recent", InfluenceStrength: fixedpoint.FromPer10000(5000)})

	expired := b.AutoExpire(600, nil)
	if expired != 1 {
		t.Fatalf("expected 1 post expired with default threshold, got %d", expired)
	}
	active := b.PostsAtLocation(loc)
	if len(active) != 1 || active[0].Content != "recent" {
		t.Fatalf("expected only the recent post to remain active")
	}
}

func TestCounterPropagandaWeakensOpposingPostsOnly(t *testing.T) {
	b := New()
	authorA, authorB := ids.NewAgentID(), ids.NewAgentID()
	loc := ids.NewLocationID()
	construct := ids.NewConstructID()

	original := b.Post(Params{Author: authorA, Location: loc, Tick: 10, Type: TypeDoctrine, Content: "original", AssociatedConstruct: &construct, InfluenceStrength: fixedpoint.FromPer10000(5000)})

	_, weakened := b.CounterPropaganda(Params{Author: authorB, Location: loc, Tick: 20, Type: TypeDoctrine, Content: "counter", AssociatedConstruct: &construct, InfluenceStrength: fixedpoint.FromPer10000(6000)})
	if weakened != 1 {
		t.Fatalf("expected exactly 1 post weakened, got %d", weakened)
	}

	post, ok := b.posts[original]
	if !ok {
		t.Fatalf("original post missing")
	}
	want := fixedpoint.FromPer10000(3500)
	if post.InfluenceStrength.Cmp(want) != 0 {
		t.Fatalf("expected influence reduced to 0.35, got %s", post.InfluenceStrength)
	}

	_, weakenedOwn := b.CounterPropaganda(Params{Author: authorA, Location: loc, Tick: 30, Type: TypeDoctrine, Content: "self-counter", AssociatedConstruct: &construct, InfluenceStrength: fixedpoint.FromPer10000(6000)})
	if weakenedOwn != 1 {
		t.Fatalf("expected only authorB's counter-post to be weakened, got %d", weakenedOwn)
	}
	if post := b.posts[original]; post.InfluenceStrength.Cmp(want) != 0 {
		t.Fatalf("expected an author's own counter-propaganda to leave their own post at 0.35, got %s", post.InfluenceStrength)
	}
}

func TestInfluenceOnNewcomerAggregatesByConstructAndType(t *testing.T) {
	b := New()
	author := ids.NewAgentID()
	loc := ids.NewLocationID()
	construct := ids.NewConstructID()

	b.Post(Params{Author: author, Location: loc, Tick: 10, Type: TypeDoctrine, Content: "believe", AssociatedConstruct: &construct, InfluenceStrength: fixedpoint.FromPer10000(5000)})
	b.Post(Params{Author: author, Location: loc, Tick: 20, Type: TypeDoctrine, Content: "believe more", AssociatedConstruct: &construct, InfluenceStrength: fixedpoint.FromPer10000(3000)})
	b.Post(Params{Author: author, Location: loc, Tick: 30, Type: TypeWarning, Content: "beware", InfluenceStrength: fixedpoint.FromPer10000(4000)})

	influence := b.InfluenceOnNewcomer(loc)
	if len(influence) != 2 {
		t.Fatalf("expected 2 influence groups, got %d", len(influence))
	}
	for _, i := range influence {
		if i.SourceType == TypeDoctrine {
			if i.PostCount != 2 {
				t.Fatalf("expected 2 doctrine posts, got %d", i.PostCount)
			}
			if i.TotalInfluence.Cmp(fixedpoint.FromPer10000(8000)) != 0 {
				t.Fatalf("expected combined doctrine influence 0.8, got %s", i.TotalInfluence)
			}
		}
	}
}

func TestPropagandaReachCountsVisitorsAtOrAfterPostTick(t *testing.T) {
	b := New()
	author := ids.NewAgentID()
	loc := ids.NewLocationID()
	visitorBefore, visitorAfter, visitorExact := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()

	postID := b.Post(Params{Author: author, Location: loc, Tick: 10, Type: TypeDeclaration, Content: "rule", InfluenceStrength: fixedpoint.FromPer10000(5000)})
	b.RecordVisit(loc, visitorBefore, 5)
	b.RecordVisit(loc, visitorAfter, 15)
	b.RecordVisit(loc, visitorExact, 10)

	if got := b.PropagandaReach(postID); got != 2 {
		t.Fatalf("expected 2 visitors counted (at or after post tick), got %d", got)
	}
}

func TestMostPropagandizedLocationsSortsDescending(t *testing.T) {
	b := New()
	author := ids.NewAgentID()
	locA, locB := ids.NewLocationID(), ids.NewLocationID()
	for i := 0; i < 3; i++ {
		b.Post(Params{Author: author, Location: locA, Tick: 10, Type: TypeDeclaration, Content: "x", InfluenceStrength: fixedpoint.FromPer10000(5000)})
	}
	b.Post(Params{Author: author, Location: locB, Tick: 10, Type: TypeWarning, Content: "y", InfluenceStrength: fixedpoint.FromPer10000(5000)})

	ranked := b.MostPropagandizedLocations()
	if len(ranked) != 2 || ranked[0].Location != locA || ranked[0].Count != 3 {
		t.Fatalf("expected locA ranked first with count 3, got %+v", ranked)
	}
}
