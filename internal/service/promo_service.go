package service

import (
	"fmt"
	"math/rand"
)

// TipsLabel prefixes every tip reply.
const TipsLabel = "📢 今日信号：\n"

// SubscribeText is the reply to /subscribe until VIP plans ship.
const SubscribeText = "💎 VIP订阅功能即将上线，敬请期待！"

// WelcomeButtonText labels the inline button attached to the welcome message.
const WelcomeButtonText = "🎁 立即注册领取$10体验金"

const welcomeTemplate = `🔥欢迎加入【九鼎娱乐东南亚福利群】！
🎰电子福利：注册送$10体验金，玩PG老虎机爆大奖！%s
🐟捕鱼技巧：每日高爆率分享，金币赠送！
⚽体育信号：泰超/英超预测，胜率65%%+！
🎁入群抽$20 USDT！规则：禁广告/私聊，18+理性娱乐。问题@admin。
Bot命令：/tips 获取信号，/subscribe 订阅VIP`

var tips = []string{
	"📊泰超：曼谷联胜 @1.85",
	"🐟捕鱼技巧：火箭炮瞄鲨鱼群，高爆率5000倍！",
	"🎰PG《Fortune Tiger》免费10转，注册领！",
}

// Tips returns a copy of the fixed tip set.
func Tips() []string {
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}

// PromoService composes the fixed promotional replies.
type PromoService struct {
	platformURL string
	welcome     string
	intN        func(n int) int
}

func NewPromoService(platformURL string) *PromoService {
	return &PromoService{
		platformURL: platformURL,
		welcome:     fmt.Sprintf(welcomeTemplate, platformURL),
		intN:        rand.Intn,
	}
}

// WithRand replaces the random source; intN must return a value in [0, n).
func (s *PromoService) WithRand(intN func(n int) int) *PromoService {
	s.intN = intN
	return s
}

func (s *PromoService) PlatformURL() string {
	return s.platformURL
}

// Welcome returns the greeting sent on /start.
func (s *PromoService) Welcome() string {
	return s.welcome
}

// Tip returns one tip picked uniformly at random, prefixed with TipsLabel.
func (s *PromoService) Tip() string {
	return TipsLabel + tips[s.intN(len(tips))]
}

func (s *PromoService) Subscribe() string {
	return SubscribeText
}
