package llm

import (
	"context"
	"hash/fnv"
	"strings"
)

// MockGenerator is the offline substitute for a live model. It picks from
// small fixed pools keyed by substring match on the prompt; the pick is a
// hash of the prompt, so the same prompt always yields the same line.
type MockGenerator struct {
	characterName string
}

func NewMockGenerator(characterName string) *MockGenerator {
	return &MockGenerator{characterName: characterName}
}

var mockTweets = []string{
	"Bitcoin just broke $75K, setting a new ATH! Institutional inflows continue to drive the market upward. Watch for potential resistance at $80K. #BTC #CryptoMarkets",
	"Ethereum's Shanghai upgrade has increased staking yields to 7.2% APR. This could attract more validators and strengthen network security. #ETH #Staking #DeFi",
	"SEC approval of spot ETH ETFs could bring $5-10B in new capital to the market in Q1 2025. Institutional adoption accelerating. #Ethereum #Regulation",
	"Layer-2 solutions processing 5M+ transactions daily, reducing Ethereum gas fees by 92%. @Arbitrum and @Optimism leading the scaling race. #L2 #Scaling",
	"DeFi TVL has surpassed $150B, up 65% YTD. Lending protocols seeing renewed interest as yields outpace traditional finance. #DeFi #Yield #Finance",
}

var mockReplies = []string{
	"Great observation! Bitcoin's 200-day moving average has been a reliable support level during this bull cycle. Currently at $62K, it provides a strong foundation for further upside.",
	"You raise an important point about regulatory clarity. The new framework proposed by the EU provides a balanced approach that could become a global standard. This would reduce uncertainty for projects and investors alike.",
	"The correlation between crypto and traditional markets has actually decreased to 0.31 in Q1 2025, down from 0.68 last year. This suggests crypto is maturing as a separate asset class.",
	"Layer-1 competition is indeed fierce, but Ethereum's developer ecosystem (280K+ active devs) remains 4x larger than its closest competitor. Network effects matter tremendously in this space.",
	"NFT utility beyond digital art is the real story of 2025. From supply chain verification to identity management, the technology is finding practical applications across industries.",
}

var mockDMs = []string{
	"Thanks for your message! Bitcoin's current market structure suggests we're in a mid-cycle accumulation phase similar to Q2 2021. Key levels to watch are $72K (support) and $82K (resistance). Would you like more specific analysis on any particular assets?",
	"Great question about DeFi yields! The current spread between lending and borrowing rates on platforms like Aave and Compound is historically low, suggesting efficient capital allocation. Always assess smart contract risk before depositing significant funds. Anything else you'd like to know?",
	"Regarding NFT investments, the market has matured significantly. Focus on projects with active developer communities, clear utility beyond speculation, and sustainable tokenomics. Let me know if you need more specific guidance!",
	"On regulatory developments, the most significant recent change is the new framework from the Financial Stability Board. For traders this means KYC/AML procedures will become more standardized across jurisdictions. I can share some resources if you're interested.",
	"Regarding portfolio allocation, a 60/30/10 split between established assets, mid-cap alts and early-stage projects has provided the optimal risk-adjusted returns over the past cycles. Would you like me to elaborate?",
}

const mockSearchReply = "Interesting perspective on blockchain technology. I believe decentralized finance has tremendous potential to reshape the financial landscape with its open, permissionless architecture and programmable money capabilities."

func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "tweet"):
		return pick(mockTweets, prompt), nil
	case strings.Contains(lower, "reply"), strings.Contains(lower, "respond"), strings.Contains(lower, "mention"):
		return pick(mockReplies, prompt), nil
	case strings.Contains(lower, "direct message"), strings.Contains(lower, "dm"):
		return pick(mockDMs, prompt), nil
	case strings.Contains(lower, "search"):
		return mockSearchReply, nil
	}

	return "As " + m.characterName + ", I'm here to provide insights on cryptocurrency and blockchain technology. This is a response to your prompt.", nil
}

func pick(pool []string, prompt string) string {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return strings.TrimSpace(pool[h.Sum32()%uint32(len(pool))])
}
