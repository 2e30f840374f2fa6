package builtins

// Polyfills is guest-source ES5 run once after bootstrap to fill in
// higher-order Array/Function/Object/String methods that are far more
// naturally expressed in guest code than as native Go (the way a browser
// runtime ships a "bootstrap.js" alongside its native bindings) - anything
// whose behavior is just guest-observable calls into other guest methods
// (a callback invocation, another property read) belongs here instead of
// behind the native/Invoker boundary, so single-stepping through it looks
// like ordinary calls rather than one opaque native step. Package interp
// parses and runs this once, to completion, as part of constructing a
// fresh Interpreter; its AST nodes carry synthetic (offset -1) positions
// so single-stepping never surfaces a polyfill frame to the host.
const Polyfills = `
Array.prototype.lastIndexOf = function(target) {
	var n = this.length;
	var from = arguments.length > 1 ? arguments[1] : n - 1;
	if (from < 0) from += n;
	if (from > n - 1) from = n - 1;
	for (var i = from; i >= 0; i--) {
		if (i in this && this[i] === target) return i;
	}
	return -1;
};

String.prototype.match = function(re) {
	if (!(re instanceof RegExp)) re = new RegExp(re);
	if (!re.global) return re.exec(this);
	var out = [];
	var m;
	var s = String(this);
	var copy = new RegExp(re.source, re.ignoreCase ? "gi" : "g");
	while ((m = copy.exec(s)) !== null) {
		out.push(m[0]);
		if (m[0] === "") break;
	}
	return out.length ? out : null;
};

Array.prototype.sort = function(cmp) {
	var a = this;
	var n = a.length;
	for (var i = 1; i < n; i++) {
		var key = a[i];
		var j = i - 1;
		while (j >= 0) {
			var cur = a[j];
			var goLeft = cmp ? cmp(cur, key) > 0 : String(cur) > String(key);
			if (!goLeft) break;
			a[j + 1] = cur;
			j--;
		}
		a[j + 1] = key;
	}
	return a;
};

Array.prototype.forEach = function(callback) {
	var thisArg = arguments.length > 1 ? arguments[1] : undefined;
	var n = this.length;
	for (var i = 0; i < n; i++) {
		callback.call(thisArg, this[i], i, this);
	}
};

Array.prototype.map = function(callback) {
	var thisArg = arguments.length > 1 ? arguments[1] : undefined;
	var n = this.length;
	var out = [];
	for (var i = 0; i < n; i++) {
		out.push(callback.call(thisArg, this[i], i, this));
	}
	return out;
};

Array.prototype.filter = function(callback) {
	var thisArg = arguments.length > 1 ? arguments[1] : undefined;
	var n = this.length;
	var out = [];
	for (var i = 0; i < n; i++) {
		if (callback.call(thisArg, this[i], i, this)) out.push(this[i]);
	}
	return out;
};

Array.prototype.some = function(callback) {
	var thisArg = arguments.length > 1 ? arguments[1] : undefined;
	var n = this.length;
	for (var i = 0; i < n; i++) {
		if (callback.call(thisArg, this[i], i, this)) return true;
	}
	return false;
};

Array.prototype.every = function(callback) {
	var thisArg = arguments.length > 1 ? arguments[1] : undefined;
	var n = this.length;
	for (var i = 0; i < n; i++) {
		if (!callback.call(thisArg, this[i], i, this)) return false;
	}
	return true;
};

Array.prototype.reduce = function(callback) {
	var n = this.length;
	var i = 0;
	var acc;
	if (arguments.length > 1) {
		acc = arguments[1];
	} else {
		if (n === 0) throw new TypeError("Reduce of empty array with no initial value");
		acc = this[0];
		i = 1;
	}
	for (; i < n; i++) {
		acc = callback(acc, this[i], i, this);
	}
	return acc;
};

Array.prototype.reduceRight = function(callback) {
	var n = this.length;
	var i = n - 1;
	var acc;
	if (arguments.length > 1) {
		acc = arguments[1];
	} else {
		if (n === 0) throw new TypeError("Reduce of empty array with no initial value");
		acc = this[i];
		i--;
	}
	for (; i >= 0; i--) {
		acc = callback(acc, this[i], i, this);
	}
	return acc;
};

// bind is the classic ES5 shim (the one that shipped for years on MDN):
// fNOP sits between the bound wrapper and the target's own prototype so
// "new bound()" still inherits from target.prototype without invoking
// target as a constructor through apply.
Function.prototype.bind = function(boundThis) {
	if (typeof this !== "function") {
		throw new TypeError("Function.prototype.bind - what is trying to be bound is not callable");
	}
	var target = this;
	var boundArgs = Array.prototype.slice.call(arguments, 1);
	var fNOP = function() {};
	var fBound = function() {
		var callArgs = boundArgs.concat(Array.prototype.slice.call(arguments));
		return target.apply(this instanceof fNOP ? this : boundThis, callArgs);
	};
	if (target.prototype) {
		fNOP.prototype = target.prototype;
	}
	fBound.prototype = new fNOP();
	return fBound;
};

Object.prototype.toLocaleString = function() {
	return this.toString();
};

Array.prototype.toLocaleString = function() {
	var n = this.length;
	var parts = [];
	for (var i = 0; i < n; i++) {
		var v = this[i];
		parts.push(v === null || v === undefined ? "" : v.toLocaleString());
	}
	return parts.join(",");
};

Object.defineProperties = function(obj, properties) {
	var keys = Object.keys(properties);
	for (var i = 0; i < keys.length; i++) {
		Object.defineProperty(obj, keys[i], properties[keys[i]]);
	}
	return obj;
};

(function() {
	var nativeCreate = Object.create;
	Object.create = function(proto, properties) {
		var obj = nativeCreate(proto);
		if (properties !== undefined) {
			Object.defineProperties(obj, properties);
		}
		return obj;
	};
})();

function __expandReplacement(template, match, str, matchIndex) {
	var result = "";
	for (var i = 0; i < template.length; i++) {
		var c = template.charAt(i);
		if (c === "$" && i + 1 < template.length) {
			var next = template.charAt(i + 1);
			if (next === "$") { result += "$"; i++; continue; }
			if (next === "&") { result += match[0]; i++; continue; }
			if (next === "` + "`" + `") { result += str.slice(0, matchIndex); i++; continue; }
			if (next === "'") { result += str.slice(matchIndex + match[0].length); i++; continue; }
			if (next >= "1" && next <= "9") {
				var idx = next.charCodeAt(0) - 48;
				if (idx < match.length) {
					result += match[idx] === undefined ? "" : match[idx];
					i++;
					continue;
				}
			}
		}
		result += c;
	}
	return result;
}

String.prototype.replace = function(pattern, replacement) {
	var s = String(this);
	var isFn = typeof replacement === "function";
	if (pattern instanceof RegExp) {
		var re = pattern.global ? new RegExp(pattern.source, pattern.ignoreCase ? "gi" : "g") : pattern;
		var out = "";
		var last = 0;
		var m;
		while ((m = re.exec(s)) !== null) {
			out += s.slice(last, m.index);
			if (isFn) {
				var callArgs = [];
				for (var i = 0; i < m.length; i++) callArgs.push(m[i]);
				callArgs.push(m.index, s);
				out += String(replacement.apply(undefined, callArgs));
			} else {
				out += __expandReplacement(String(replacement), m, s, m.index);
			}
			last = m.index + m[0].length;
			if (!pattern.global) break;
			if (m[0] === "") re.lastIndex++;
		}
		out += s.slice(last);
		return out;
	}
	var pat = String(pattern);
	var idx = s.indexOf(pat);
	if (idx < 0) return s;
	var rep;
	if (isFn) {
		rep = String(replacement(pat, idx, s));
	} else {
		rep = __expandReplacement(String(replacement), [pat], s, idx);
	}
	return s.slice(0, idx) + rep + s.slice(idx + pat.length);
};
`
